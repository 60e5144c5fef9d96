package web

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/KIR30/NeuralNetworkMicroarraySegmentation/netdef"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler function for the websocket connection used to push summaries when
// the definition file changes on disk.
func (m *Model) Websocket() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		m.Lock()
		defer m.Unlock()
		var err error
		m.conn, err = upgrader.Upgrade(w, r, nil)
		if err != nil {
			logError(w, err)
		}
	}
}

// Watch polls the definition and solver files and revalidates on change.
// Runs until the process exits.
func (m *Model) Watch(interval time.Duration) {
	go func() {
		for range time.Tick(interval) {
			m.Lock()
			changed, err := m.Reload()
			if err != nil {
				log.Println("reload error:", err)
			} else if changed {
				m.push()
			}
			m.Unlock()
		}
	}()
}

// push the per phase summaries to the client, if connected
func (m *Model) push() {
	if m.conn == nil {
		return
	}
	for _, phase := range netdef.Phases {
		sum, err := m.Summarise(phase)
		if err != nil {
			sum = &Summary{Phase: string(phase), Status: err.Error()}
		}
		if err := m.conn.WriteJSON(sum); err != nil {
			log.Println("websocket write failed:", err)
			m.conn = nil
			return
		}
	}
}
