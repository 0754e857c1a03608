package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/cthiebaud/bwv-zeug/constants"
	"github.com/cthiebaud/bwv-zeug/model"
	"github.com/cthiebaud/bwv-zeug/table"
)

var (
	serveArtifact string
	serveAddr     string

	servedNotes []model.AlignedNote
)

func init() {
	serveCmd.Flags().StringVar(&serveArtifact, "artifact", constants.ProjectFile("sync.json"),
		"artifact to serve")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves a sync artifact over HTTP",
	Long:  `Serves the synchronized animation artifact for the presentation layer.`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(serve())
	},
}

// LoadArtifact fills the served note set; split out so tests can drive the
// handlers without a listener.
func LoadArtifact(path string) error {
	notes, err := table.ReadAligned(path)
	if err != nil {
		return err
	}
	servedNotes = notes
	return nil
}

func HandleNotes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(servedNotes)
}

func HandleNote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	for _, n := range servedNotes {
		if n.ID == id {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(n)
			return
		}
	}
	http.Error(w, fmt.Sprintf("no note %q", id), http.StatusNotFound)
}

func NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/notes", HandleNotes).Methods("GET")
	router.HandleFunc("/notes/{id}", HandleNote).Methods("GET")
	return router
}

func serve() error {
	if err := requirePath("artifact", serveArtifact); err != nil {
		return err
	}
	if err := LoadArtifact(serveArtifact); err != nil {
		return err
	}
	fmt.Printf("Serving %v notes on %v\n", len(servedNotes), serveAddr)
	handler := cors.Default().Handler(NewRouter())
	return http.ListenAndServe(serveAddr, handler)
}
