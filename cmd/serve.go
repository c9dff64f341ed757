package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a built style-guide site",
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		dir, _ := cmd.Flags().GetString("dir")
		fmt.Printf("Serving %s on port %s\n", dir, port)

		router := mux.NewRouter()
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(dir)))

		log.Fatal(http.ListenAndServe(":"+port, router))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "9010", "Port to serve on")
	serveCmd.Flags().StringP("dir", "d", "dist", "Built site directory to serve")
}
