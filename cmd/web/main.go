// Command web serves the definition viewer.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/netdef"
	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/web"
)

func main() {
	log.SetFlags(0)
	dir := flag.String("dir", ".", "model directory")
	name := flag.String("model", "microseg", "model base name")
	port := flag.Int("port", 8080, "listen port")
	useAuth := flag.Bool("auth", false, "enable pam authentication")
	watch := flag.Duration("watch", time.Second, "file watch interval, 0 to disable")
	flag.Parse()

	model, err := web.NewModel(*dir, *name, netdef.SegmenterWindow)
	netdef.CheckErr(err)
	if *watch > 0 {
		model.Watch(*watch)
	}

	t, err := web.NewTemplates()
	netdef.CheckErr(err)
	t.AddMenuItem(web.Link{Url: "/net/TRAIN", Name: "net"})
	t.AddMenuItem(web.Link{Url: "/solver", Name: "solver"})
	t.AddMenuItem(web.Link{Url: "/plot/lr", Name: "plots"})

	netPage := web.NewNetPage(t.Clone(), model)
	solverPage := web.NewSolverPage(t.Clone(), model)
	plotPage := web.NewPlotPage(t.Clone(), model)

	r := mux.NewRouter()
	r.Handle("/", http.RedirectHandler("/net/TRAIN", http.StatusFound))
	r.PathPrefix("/static/").Handler(http.FileServer(http.Dir(web.AssetDir)))

	r.HandleFunc("/net/{phase:(?:TRAIN|TEST)}", netPage.Base())
	r.HandleFunc("/solver", solverPage.Base())
	r.HandleFunc("/solver/save", solverPage.Save()).Methods("POST")
	r.HandleFunc("/solver/reset", solverPage.Reset())
	r.HandleFunc("/plot/{page:(?:lr|size)}", plotPage.Base())
	r.HandleFunc("/ws", model.Websocket())

	var handler http.Handler = r
	if *useAuth {
		handler = web.NewAuthMiddleware().Middleware(r)
	}
	fmt.Printf("serving web page at http://localhost:%d\n", *port)
	netdef.CheckErr(http.ListenAndServe(fmt.Sprintf(":%d", *port), handler))
}
