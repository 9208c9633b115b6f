package events

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Topology events streamed to websocket consumers so they can refresh
// derived state (frame pickers, render object bindings) without
// polling the frame list.

const (
	FRAME_ADDED = iota
	REPARENTED
)

type event struct {
	Kind   int
	Frame  string
	Parent string
	Time   time.Time
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregisterClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[events] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[events] ws write ping error: %v", err)
				return
			}
		}
	}
}

func NewClient(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, 32)}
	registerClient(c)
	go c.writePump()
	return c
}

var eventBroadcast chan *event
var broadcastList map[*client]bool
var globalLock sync.Mutex

func registerClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	broadcastList[c] = true
}

func unregisterClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	delete(broadcastList, c)
}

func init() {
	eventBroadcast = make(chan *event, 64)
	broadcastList = make(map[*client]bool)
	go func() {
		for e := range eventBroadcast {
			data, err := json.Marshal(e)
			if err != nil {
				log.Printf("[events] marshal error: %v", err)
				continue
			}
			globalLock.Lock()
			for c := range broadcastList {
				select {
				case c.send <- data:
				default:
					// slow consumer, drop instead of stalling ingestion
				}
			}
			globalLock.Unlock()
		}
	}()
}

func emit(kind int, frame, parent string) {
	eventBroadcast <- &event{
		Kind:   kind,
		Frame:  frame,
		Parent: parent,
		Time:   time.Now()}
}

func FrameAdded(frame, parent string) {
	emit(FRAME_ADDED, frame, parent)
}

func Reparented(frame, parent string) {
	emit(REPARENTED, frame, parent)
}
