package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhe/calculator"
	"dhe/model"
)

func init() {
	log.SetLevel(log.WarnLevel)
}

func smallEnv() *model.Env {
	env := model.DefaultEnv()
	env.DimAx = 3
	env.DimRad = 4
	env.Dt = 3600
	env.DtBoundaryRefresh = 6 * 3600
	env.GMethod = model.GMethodCone
	env.DHE[0].L = 50
	return &env
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewServer("", websocket.Upgrader{}).Handler())
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func request(t *testing.T, conn *websocket.Conn, typ string, v interface{}) {
	t.Helper()
	content := ""
	if v != nil {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		content = string(data)
	}
	require.NoError(t, conn.WriteJSON(model.Msg{Type: typ, Content: content}))
}

func receive(t *testing.T, conn *websocket.Conn) model.Msg {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(30*time.Second)))
	var msg model.Msg
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestSession(t *testing.T) {
	conn := dial(t)
	load := make([]float64, 30)
	for i := range load {
		load[i] = 2000
	}
	request(t, conn, MsgEnv, Request{Env: smallEnv(), Load: [][]float64{load}})
	assert.Equal(t, MsgEnvSet, receive(t, conn).Type)

	request(t, conn, MsgStart, nil)
	assert.Equal(t, MsgStarted, receive(t, conn).Type)

	var chunks []calculator.ChunkResult
	for {
		msg := receive(t, conn)
		if msg.Type != MsgChunk {
			require.Equal(t, MsgFinished, msg.Type, msg.Content)
			var s Summary
			require.NoError(t, json.Unmarshal([]byte(msg.Content), &s))
			assert.Equal(t, 1, s.DHE)
			assert.Equal(t, 30, s.Samples)
			require.Len(t, s.TSink, 1)
			assert.Equal(t, chunks[len(chunks)-1].TSink[0][5], s.TSink[0])
			break
		}
		var r calculator.ChunkResult
		require.NoError(t, json.Unmarshal([]byte(msg.Content), &r))
		chunks = append(chunks, r)
	}
	require.Len(t, chunks, 5)
	for i, r := range chunks {
		assert.Equal(t, i, r.Chunk)
		assert.Len(t, r.TSink[0], 6)
	}

	// 同一会话可再次计算
	request(t, conn, MsgStart, nil)
	assert.Equal(t, MsgStarted, receive(t, conn).Type)
	for msg := receive(t, conn); msg.Type == MsgChunk; msg = receive(t, conn) {
	}
}

func TestSessionProfile(t *testing.T) {
	conn := dial(t)
	request(t, conn, MsgEnv, Request{Env: smallEnv(), T: []float64{0, 36000}, P: []float64{1000, 1000}})
	assert.Equal(t, MsgEnvSet, receive(t, conn).Type)
	request(t, conn, MsgStart, nil)
	assert.Equal(t, MsgStarted, receive(t, conn).Type)

	msg := receive(t, conn)
	for msg.Type == MsgChunk {
		msg = receive(t, conn)
	}
	require.Equal(t, MsgFinished, msg.Type)
	var s Summary
	require.NoError(t, json.Unmarshal([]byte(msg.Content), &s))
	assert.Equal(t, 11, s.Samples)
}

func TestSessionErrors(t *testing.T) {
	conn := dial(t)

	request(t, conn, MsgStart, nil)
	assert.Equal(t, MsgError, receive(t, conn).Type)

	request(t, conn, MsgStop, nil)
	assert.Equal(t, MsgStopped, receive(t, conn).Type)

	bad := smallEnv()
	bad.DimRad = 1
	request(t, conn, MsgEnv, Request{Env: bad, Load: [][]float64{{1}}})
	msg := receive(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Content, "dim_rad")

	request(t, conn, MsgEnv, Request{Env: smallEnv()})
	assert.Equal(t, MsgError, receive(t, conn).Type)

	require.NoError(t, conn.WriteJSON(model.Msg{Type: MsgEnv, Content: "{"}))
	assert.Equal(t, MsgError, receive(t, conn).Type)

	request(t, conn, "unknown", nil)
	assert.Equal(t, MsgError, receive(t, conn).Type)
}

func TestSummarize(t *testing.T) {
	s := summarize([]*calculator.Result{
		{TSink: []float64{1, 2}, TSource: []float64{3, 4}},
		{TSink: []float64{5, 6}, TSource: []float64{7, 8}},
	})
	assert.Equal(t, Summary{DHE: 2, Samples: 2, TSink: []float64{2, 6}, TSource: []float64{4, 8}}, s)
}
