package status

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mogaika/freescape/engine"
	"github.com/mogaika/freescape/utils"
)

const (
	INFO = iota
	ERROR
	PROGRESS
	EVENT
)

type status struct {
	Message  string
	Time     time.Time
	Type     int
	Progress float32
	Session  string        `json:",omitempty"`
	Event    *engine.Event `json:",omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	log := utils.Channel(utils.ChannelWeb)
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
				log.Warnf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warnf("[status] ws write ping error: %v", err)
				return
			}
		}
	}
}

// readPump drains the connection so close frames are noticed.
func (c *client) readPump() {
	defer func() {
		globalLock.Lock()
		delete(broadcastList, c)
		close(c.send)
		globalLock.Unlock()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// NewClient subscribes conn to the status feed. The last message is replayed first.
func NewClient(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, 32)}
	globalLock.Lock()
	broadcastList[c] = true
	if lastMessage != nil {
		c.send <- lastMessage
	}
	globalLock.Unlock()
	go c.writePump()
	go c.readPump()
	return c
}

var statusBroadcast chan *status
var broadcastList map[*client]bool
var globalLock sync.Mutex
var lastMessage []byte = nil

func unregisterClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	delete(broadcastList, c)
}

func Clients() int {
	globalLock.Lock()
	defer globalLock.Unlock()
	return len(broadcastList)
}

func init() {
	statusBroadcast = make(chan *status, 64)
	broadcastList = make(map[*client]bool)
	go func() {
		for s := range statusBroadcast {
			data, err := json.Marshal(s)
			if err != nil {
				utils.Channel(utils.ChannelWeb).Errorf("[status] marshal: %v", err)
				continue
			}
			globalLock.Lock()
			lastMessage = data
			for c := range broadcastList {
				select {
				case c.send <- data:
				default:
					// slow client, drop the message
				}
			}
			globalLock.Unlock()
		}
	}()
}

func Status(msg string, _type int, progress float32) {
	if math.IsNaN(float64(progress)) || math.IsInf(float64(progress), 0) {
		progress = 0
	}
	statusBroadcast <- &status{
		Message:  msg,
		Time:     time.Now(),
		Type:     _type,
		Progress: progress}
}

func Info(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), INFO, 0.0)
}

func Error(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), ERROR, 0.0)
}

func Progress(progress float32, format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), PROGRESS, progress)
}

// Event publishes a collaborator request made by a play session.
func Event(session string, e engine.Event) {
	statusBroadcast <- &status{
		Message: e.String(),
		Time:    time.Now(),
		Type:    EVENT,
		Session: session,
		Event:   &e,
	}
}

// Sink returns an event sink for engine.RecordingCollaborators.
func Sink(session string) func(engine.Event) {
	return func(e engine.Event) { Event(session, e) }
}
