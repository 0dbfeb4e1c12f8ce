package mongodb

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/ohowland/ehub_core/internal/pkg/msg"
	"github.com/ohowland/ehub_core/internal/pkg/pareto"
	"gotest.tools/v3/assert"
)

func writeConfig(t *testing.T, body string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, "mongodb_config.json")
	err := ioutil.WriteFile(path, []byte(body), os.ModePerm)
	assert.NilError(t, err)
	return path
}

func TestNewReadsConfig(t *testing.T) {
	path := writeConfig(t, `{"URI": "mongodb://localhost", "Database": "ehub", "Port": "27017"}`)

	pid, err := uuid.NewUUID()
	assert.NilError(t, err)
	pub := msg.NewPublisher(pid)

	h, err := New(path, pub)
	assert.NilError(t, err)
	assert.Equal(t, h.config.URI, "mongodb://localhost")
	assert.Equal(t, h.config.Database, "ehub")
	assert.Equal(t, h.config.Port, "27017")
}

func TestHandlerReceivesProgress(t *testing.T) {
	path := writeConfig(t, `{"URI": "", "Database": "", "Port": ""}`)

	pid, err := uuid.NewUUID()
	assert.NilError(t, err)
	pub := msg.NewPublisher(pid)

	h, err := New(path, pub)
	assert.NilError(t, err)

	pub.Publish(msg.Progress, pareto.Point{Step: 3, Cost: 140, Carbon: 30})

	m := <-h.inbox
	p, ok := m.Payload().(pareto.Point)
	assert.Assert(t, ok)
	assert.Equal(t, p.Step, 3)
}

func TestMsgToBSON(t *testing.T) {
	pid, err := uuid.NewUUID()
	assert.NilError(t, err)

	doc := msgToBSON(msg.New(pid, msg.Progress, pareto.Point{Step: 1}))
	assert.Equal(t, doc[0].Key, "$set")
}
