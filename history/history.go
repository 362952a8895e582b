/**
 *
 * 热流历史，按边界刷新块追加，叠加计算时按块号倒序读取
 * 与温度场队列一样使用一整块数组存放，行宽为轴向分层数
 *
 */

package history

import "fmt"

// 容量基数
const base = 8

type FluxHistory struct {
	arr   []float64
	width int
	// 行数
	size int
	// 行容量
	capacity int
}

// NewFluxHistory 第 0 行为模拟开始前的零热流
func NewFluxHistory(capacity, width int) *FluxHistory {
	if capacity < 1 {
		capacity = 1
	}
	if remainder := capacity % base; remainder != 0 {
		capacity = capacity - remainder + base
	}
	return &FluxHistory{
		arr:      make([]float64, capacity*width),
		width:    width,
		size:     1,
		capacity: capacity,
	}
}

func (h *FluxHistory) Size() int {
	return h.size
}

func (h *FluxHistory) IsFull() bool {
	return h.size == h.capacity
}

// AddLast 追加一行，满了则按基数扩容
func (h *FluxHistory) AddLast(row []float64) {
	if len(row) != h.width {
		panic(fmt.Sprintf("flux history: row width %d, want %d", len(row), h.width))
	}
	if h.IsFull() {
		h.capacity += base
		arr := make([]float64, h.capacity*h.width)
		copy(arr, h.arr)
		h.arr = arr
	}
	copy(h.arr[h.size*h.width:], row)
	h.size++
}

func (h *FluxHistory) Get(chunk, slice int) float64 {
	return h.arr[chunk*h.width+slice]
}

func (h *FluxHistory) GetRow(chunk int) []float64 {
	return h.arr[chunk*h.width : (chunk+1)*h.width]
}

// BackwardDifference Q[n-1-i] - Q[n-i]
func (h *FluxHistory) BackwardDifference(n, i, slice int) float64 {
	return h.Get(n-1-i, slice) - h.Get(n-i, slice)
}
