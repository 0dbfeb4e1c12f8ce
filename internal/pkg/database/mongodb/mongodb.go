package mongodb

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/ohowland/ehub_core/internal/pkg/msg"
	"github.com/ohowland/ehub_core/internal/pkg/pareto"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Handler persists solve progress and solved designs from a hub's broadcast
// channels into MongoDB collections.
type Handler struct {
	mux    *sync.Mutex
	inbox  <-chan msg.Msg
	pid    uuid.UUID
	config config
	stop   chan bool
}

type config struct {
	URI      string `json:"URI"`
	Database string `json:"Database"`
	Port     string `json:"Port"`
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

func msgToBSON(m msg.Msg) bson.D {
	//TODO: PID should be written as a binary of subtype 0x04 (UUID standard).
	// currently written as a string.
	return bson.D{
		{Key: "$set", Value: bson.M{
			"pid":  m.PID().String(),
			"data": m.Payload(),
		}},
	}
}

func (h *Handler) StopProcess() {
	h.stop <- true
}

func (h Handler) Process() {
	//TODO: Handle reconnection to the MongoDB resource
	client, err := mongo.NewClient(options.Client().ApplyURI(h.config.URI + ":" + h.config.Port))
	if err != nil {
		log.Println(err)
	}

	ctx := context.TODO()
	err = client.Connect(ctx)
	if err != nil {
		log.Println(err)
	}
	defer client.Disconnect(ctx)

	client.Database(h.config.Database).Collection("sweepProgress").Drop(ctx)
	client.Database(h.config.Database).Collection("hubResults").Drop(ctx)
loop:
	for {
		select {
		case m := <-h.inbox:
			switch m.Topic() {
			case msg.Progress:
				// progress messages are keyed per sweep step so a re-solved
				// step overwrites its earlier record.
				filter := bson.M{"pid": m.PID()}
				if p, ok := m.Payload().(pareto.Point); ok {
					filter = bson.M{"pid": m.PID(), "step": p.Step}
				}
				opts := options.Update().SetUpsert(true)
				_, err = client.Database(h.config.Database).Collection("sweepProgress").UpdateOne(
					ctx,
					filter,
					msgToBSON(m),
					opts,
				)

				if err != nil {
					log.Fatal(err)
				}

			case msg.Result:
				_, err = client.Database(h.config.Database).Collection("hubResults").InsertOne(
					ctx,
					bson.M{
						"pid":  m.PID().String(),
						"data": m.Payload(),
					},
				)

				if err != nil {
					log.Fatal(err)
				}
			}
		case <-h.stop:
			break loop
		}
	}
	log.Println("[Mongo] Process Shutdown")
}
