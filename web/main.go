// pathtracer-web serves live progressive renders over HTTP.
package main

import (
	"flag"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/df07/go-pathtracer/web/server"
)

var (
	port      int
	scenesDir string
	staticDir string
)

var cmdRoot = &cobra.Command{
	Use:           "pathtracer-web",
	Short:         "Path tracer web server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		webServer := server.NewServer(port, scenesDir, staticDir)

		glog.Infof("Path Tracer Web Server")
		glog.Infof("Visit http://localhost:%d to start rendering", port)

		return webServer.Start()
	},
}

func init() {
	cmdRoot.Flags().IntVar(&port, "port", 8080, "Port to serve on")
	cmdRoot.Flags().StringVar(&scenesDir, "scenes-dir", "scenes", "Directory searched for JSON scene files")
	cmdRoot.Flags().StringVar(&staticDir, "static", "", "Directory of static files served at /")
}

func main() {
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	defer glog.Flush()

	if err := cmdRoot.Execute(); err != nil {
		glog.Flush()
		glog.Exitf("Error starting server: %v", err)
	}
}
