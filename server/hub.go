package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"dhe/calculator"
	"dhe/model"
)

// 消息类型
const (
	MsgEnv      = "env"
	MsgStart    = "start"
	MsgStop     = "stop"
	MsgEnvSet   = "envSet"
	MsgStarted  = "started"
	MsgChunk    = "chunk"
	MsgFinished = "finished"
	MsgStopped  = "stopped"
	MsgError    = "error"
)

const chunkBuffer = 16

// env 消息的 Content，负荷给 load(每个换热器一条) 或 t/P(所有换热器共用)
type Request struct {
	Env  *model.Env  `json:"env"`
	Load [][]float64 `json:"load,omitempty"`
	T    []float64   `json:"t,omitempty"`
	P    []float64   `json:"P,omitempty"`
}

// finished 消息的 Content
type Summary struct {
	DHE     int       `json:"dhe"`
	Samples int       `json:"samples"`
	TSink   []float64 `json:"T_sink"` // 各换热器最后一个采样点
	TSource []float64 `json:"T_source"`
}

// Hub 一个连接对应一个会话，保存最近一次设置的 env
type Hub struct {
	conn *websocket.Conn
	// request
	msg chan model.Msg
	// response
	reply chan model.Msg
	done  chan struct{}

	mu      sync.Mutex
	req     *Request
	c       calculator.Calculator
	running bool
}

func NewHub(conn *websocket.Conn) *Hub {
	return &Hub{
		conn:  conn,
		msg:   make(chan model.Msg, 10),
		reply: make(chan model.Msg, 10),
		done:  make(chan struct{}),
	}
}

func (h *Hub) send(m model.Msg) {
	select {
	case h.reply <- m:
	case <-h.done:
	}
}

func (h *Hub) sendError(err error) {
	h.send(model.Msg{Type: MsgError, Content: err.Error()})
}

func (h *Hub) sendJSON(typ string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.sendError(err)
		return
	}
	h.send(model.Msg{Type: typ, Content: string(data)})
}

// 唯一写连接的协程
func (h *Hub) handleResponse() {
	for {
		select {
		case reply := <-h.reply:
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.WithField("type", reply.Type).Warn("write: ", err)
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			switch msg.Type {
			case MsgEnv:
				h.setEnv(msg.Content)
			case MsgStart:
				h.start()
			case MsgStop:
				h.stop()
			default:
				h.sendError(fmt.Errorf("no such type %q", msg.Type))
			}
		case <-h.done:
			return
		}
	}
}

// close 连接断开后停止计算并退出所有协程
func (h *Hub) close() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.c != nil {
		h.c.GetCalcHub().StopSignal()
	}
}

func (h *Hub) setEnv(content string) {
	env := model.DefaultEnv()
	req := &Request{Env: &env}
	if err := json.Unmarshal([]byte(content), req); err != nil {
		h.sendError(err)
		return
	}
	if req.Load == nil && len(req.T) == 0 {
		h.sendError(errors.New("request carries no load"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		h.sendError(errors.New("calculation running"))
		return
	}
	c, err := calculator.NewCalculator(req.Env)
	if err != nil {
		h.sendError(err)
		return
	}
	h.req, h.c = req, c
	h.send(model.Msg{Type: MsgEnvSet, Content: "env is set"})
}

func (h *Hub) start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.c == nil {
		h.sendError(errors.New("env is not set"))
		return
	}
	if h.running {
		h.sendError(errors.New("calculation running"))
		return
	}
	h.running = true
	hub := h.c.GetCalcHub()
	hub.StartSignal()
	chunks := hub.Subscribe(chunkBuffer)
	h.send(model.Msg{Type: MsgStarted})
	go h.run(h.c, h.req, chunks)
}

func (h *Hub) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		h.send(model.Msg{Type: MsgStopped, Content: "idle"})
		return
	}
	h.c.GetCalcHub().StopSignal()
}

// run 后台计算，块结果按完成顺序推送
func (h *Hub) run(c calculator.Calculator, req *Request, chunks <-chan calculator.ChunkResult) {
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for r := range chunks {
			h.sendJSON(MsgChunk, r)
		}
	}()

	var (
		results []*calculator.Result
		err     error
	)
	if req.Load != nil {
		results, err = c.Calculate(req.Load)
	} else {
		results, err = c.CalculateProfile(req.T, req.P)
	}
	<-forwarded

	h.mu.Lock()
	h.running = false
	h.mu.Unlock()

	switch {
	case errors.Is(err, calculator.ErrStopped):
		h.send(model.Msg{Type: MsgStopped, Content: err.Error()})
	case err != nil:
		log.WithField("err", err).Warn("计算失败")
		h.sendError(err)
	default:
		h.sendJSON(MsgFinished, summarize(results))
	}
}

func summarize(results []*calculator.Result) Summary {
	s := Summary{DHE: len(results)}
	for _, r := range results {
		s.Samples = len(r.TSink)
		if s.Samples == 0 {
			continue
		}
		s.TSink = append(s.TSink, r.TSink[s.Samples-1])
		s.TSource = append(s.TSource, r.TSource[s.Samples-1])
	}
	return s
}
