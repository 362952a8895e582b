package calculator

import (
	"sync"
)

// 每个边界刷新块结束后推送的结果
type ChunkResult struct {
	Chunk   int         `json:"chunk"`
	Start   int         `json:"start"` // 起始采样点
	End     int         `json:"end"`
	TSink   [][]float64 `json:"T_sink"` // [dhe][sample]
	TSource [][]float64 `json:"T_source"`
}

type CalcHub struct {
	// 停止计算
	Stop chan struct{}
	// 块结果推送，未订阅时为 nil
	PeriodCalcResult chan ChunkResult

	mu       sync.Mutex
	stopOnce *sync.Once
}

func NewCalcHub() *CalcHub {
	ch := &CalcHub{}
	ch.StartSignal()
	return ch
}

// 订阅块结果，计算结束后通道关闭
func (ch *CalcHub) Subscribe(buffer int) <-chan ChunkResult {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.PeriodCalcResult = make(chan ChunkResult, buffer)
	return ch.PeriodCalcResult
}

// PushSignal 订阅方不再读取时，停止信号可以解除阻塞
func (ch *CalcHub) PushSignal(r ChunkResult) {
	ch.mu.Lock()
	c := ch.PeriodCalcResult
	stop := ch.Stop
	ch.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case c <- r:
	case <-stop:
	}
}

// 计算结束，关闭推送通道
func (ch *CalcHub) FinishSignal() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.PeriodCalcResult != nil {
		close(ch.PeriodCalcResult)
		ch.PeriodCalcResult = nil
	}
}

func (ch *CalcHub) StopSignal() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.stopOnce.Do(func() { close(ch.Stop) })
}

func (ch *CalcHub) StartSignal() {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.Stop = make(chan struct{})
	ch.stopOnce = &sync.Once{}
}

func (ch *CalcHub) stopped() bool {
	ch.mu.Lock()
	stop := ch.Stop
	ch.mu.Unlock()
	select {
	case <-stop:
		return true
	default:
		return false
	}
}
