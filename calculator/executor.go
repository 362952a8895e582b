package calculator

import (
	"time"
)

// 同一个块内各换热器相互独立，块结束后统一做叠加
type executor interface {
	dispatchTask(n int, f func(k int) error) (time.Duration, error)
	stop()
}

// 单线程顺序执行
type executorSerial struct{}

func (executorSerial) dispatchTask(n int, f func(k int) error) (time.Duration, error) {
	start := time.Now()
	for k := 0; k < n; k++ {
		if err := f(k); err != nil {
			return time.Since(start), err
		}
	}
	return time.Since(start), nil
}

func (executorSerial) stop() {}

// 基于换热器的任务分配，每个任务为一个换热器在本块内的全部采样点
type executorBaseOnExchanger struct {
	dispatchChan chan task
	workers      int

	doneSoFar chan error
}

type task struct {
	k int
	f func(k int) error
}

func newExecutor(workers int) executor {
	if workers <= 1 {
		return executorSerial{}
	}
	e := &executorBaseOnExchanger{
		dispatchChan: make(chan task, workers),
		workers:      workers,
		doneSoFar:    make(chan error, workers),
	}
	e.run()
	return e
}

func (e *executorBaseOnExchanger) run() {
	for i := 0; i < e.workers; i++ {
		go func() {
			for t := range e.dispatchChan {
				e.doneSoFar <- t.f(t.k)
			}
		}()
	}
}

// dispatchTask 分配 n 个任务并等待全部完成，返回第一个错误
func (e *executorBaseOnExchanger) dispatchTask(n int, f func(k int) error) (time.Duration, error) {
	start := time.Now()
	go func() {
		for k := 0; k < n; k++ {
			e.dispatchChan <- task{k: k, f: f}
		}
	}()
	var first error
	for done := 0; done < n; done++ {
		if err := <-e.doneSoFar; err != nil && first == nil {
			first = err
		}
	}
	return time.Since(start), first
}

func (e *executorBaseOnExchanger) stop() {
	close(e.dispatchChan)
}
