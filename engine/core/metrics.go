package core

import "sync"

const AVG_COUNT uint8 = 30

type MetricsState struct {
	FrameAVGCounter    uint8
	MStimes            [AVG_COUNT]float64
	MSavg              float64
	Frames             int32
	AccumulatedFrameMS float64
	FPS                float64
	DrawCalls          uint32
}

var metricsMutex sync.Mutex
var metricsState = &MetricsState{}

// MetricsReset clears every counter.
func MetricsReset() {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	metricsState = &MetricsState{}
}

// MetricsUpdate records one frame that took frameElapsedTime seconds
// and issued drawCalls draw calls.
func MetricsUpdate(frameElapsedTime float64, drawCalls uint32) {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()

	// Calculate frame ms average
	frameMS := frameElapsedTime * 1000.0
	metricsState.MStimes[metricsState.FrameAVGCounter] = frameMS
	if metricsState.FrameAVGCounter == AVG_COUNT-1 {
		sum := 0.0
		for i := uint8(0); i < AVG_COUNT; i++ {
			sum += metricsState.MStimes[i]
		}
		metricsState.MSavg = sum / float64(AVG_COUNT)
	}
	metricsState.FrameAVGCounter++
	metricsState.FrameAVGCounter %= AVG_COUNT

	// Count all Frames.
	metricsState.Frames++

	// Calculate Frames per second.
	metricsState.AccumulatedFrameMS += frameMS
	if metricsState.AccumulatedFrameMS >= 1000 {
		metricsState.FPS = float64(metricsState.Frames)
		metricsState.AccumulatedFrameMS -= 1000
		metricsState.Frames = 0
	}

	metricsState.DrawCalls = drawCalls
}

// MetricsFrame returns fps, the averaged frame time in ms and the draw calls of the last frame.
func MetricsFrame() (float64, float64, uint32) {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	return metricsState.FPS, metricsState.MSavg, metricsState.DrawCalls
}
