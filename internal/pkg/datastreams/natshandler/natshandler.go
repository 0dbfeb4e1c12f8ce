package natshandler

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/ohowland/ehub_core/internal/pkg/msg"

	nats "github.com/nats-io/nats.go"
)

// Handler streams sweep progress and solved designs to a NATS server as
// JSON, one subject per hub PID.
type Handler struct {
	mux    *sync.Mutex
	inbox  <-chan msg.Msg
	pid    uuid.UUID
	config config
	stop   chan bool
}

type config struct {
	Server string `json:"Server"`
}

func (h Handler) PID() uuid.UUID {
	return h.pid
}

func redirectMsg(chIn <-chan msg.Msg, chOut chan<- msg.Msg) {
	for m := range chIn {
		chOut <- m
	}
}

func New(configPath string, hub msg.Publisher) (Handler, error) {
	jsonConfig, err := ioutil.ReadFile(configPath)
	if err != nil {
		return Handler{}, err
	}
	cfg := config{}
	if err := json.Unmarshal(jsonConfig, &cfg); err != nil {
		return Handler{}, err
	}

	pid, err := uuid.NewUUID()
	if err != nil {
		return Handler{}, err
	}

	inbox := make(chan msg.Msg, 50)

	chProgress, err := hub.Subscribe(pid, msg.Progress)
	if err != nil {
		return Handler{}, err
	}
	go redirectMsg(chProgress, inbox)

	chResult, err := hub.Subscribe(pid, msg.Result)
	if err != nil {
		return Handler{}, err
	}
	go redirectMsg(chResult, inbox)

	stop := make(chan bool)

	return Handler{
		mux:    &sync.Mutex{},
		inbox:  inbox,
		pid:    pid,
		config: cfg,
		stop:   stop,
	}, nil
}

func (h *Handler) Stop() {
	h.stop <- true
}

func (h Handler) Process() {
	log.Println("[NATS client] Process Started")
	url := h.config.Server
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url)
	if err != nil {
		panic(err)
	}
	defer nc.Close()

loop:
	for {
		select {
		case m := <-h.inbox:
			switch m.Topic() {
			case msg.Progress, msg.Result:
				data, err := json.Marshal(m.Payload())
				if err != nil {
					continue
				}
				if err = nc.Publish(m.PID().String(), data); err != nil {
					log.Printf("unable to publish to nats server: %v", err)
				}
			}

		case <-h.stop:
			nc.Close()
			break loop
		}
	}
	log.Println("[NATS client] Process Shutdown")
}
