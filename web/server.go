package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/transform_tree/tree"
)

var ServerTree *tree.Tree

func Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/transform", HandlerIngestTransform)
	r.HandleFunc("/json/frames", HandlerFrames)
	r.HandleFunc("/json/frame/{name}", HandlerFrame)
	r.HandleFunc("/json/apply", HandlerApply)
	r.HandleFunc("/dump/tree", HandlerDumpTree)
	r.HandleFunc("/ws/events", HandlerEventsSocket)
	return r
}

func StartServer(addr string, t *tree.Tree) error {
	ServerTree = t

	h := handlers.RecoveryHandler()(Router())
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
