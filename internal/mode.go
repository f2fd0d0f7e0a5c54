package internal

// Mode 對戰模式
type Mode string

const (
	Mode1v1 Mode = "1v1" // 單打：2 人，每隊 1 人
	Mode2v2 Mode = "2v2" // 雙打：4 人，每隊 2 人
)

// Modes 所有支援的模式（固定順序，用於遍歷等待池）
var Modes = []Mode{Mode1v1, Mode2v2}

// Valid 檢查模式是否支援
func (m Mode) Valid() bool {
	return m == Mode1v1 || m == Mode2v2
}

// RequiredSize 開局所需玩家數
func (m Mode) RequiredSize() int {
	switch m {
	case Mode1v1:
		return 2
	case Mode2v2:
		return 4
	default:
		return 0
	}
}

// GameConfig 場地配置（每個模式固定，房間建立時計算一次）
type GameConfig struct {
	CanvasSize      float64 `json:"canvasSize"`
	PaddleSize      float64 `json:"paddleSize"`
	PaddleThickness float64 `json:"paddleThickness"`
}

const (
	defaultCanvasSize      = 800
	defaultPaddleSize      = 100
	defaultPaddleThickness = 15
)

// ConfigFor 返回模式對應的場地配置
//
// 目前兩種模式共用同一組尺寸；保留以模式為參數，方便日後分別調整。
func ConfigFor(mode Mode) GameConfig {
	_ = mode
	return GameConfig{
		CanvasSize:      defaultCanvasSize,
		PaddleSize:      defaultPaddleSize,
		PaddleThickness: defaultPaddleThickness,
	}
}

// PaddleStart 球拍在其邊上的置中起始座標
func (c GameConfig) PaddleStart() float64 {
	return c.CanvasSize/2 - c.PaddleSize/2
}

// MaxPaddleOffset 球拍可移動的上限（下限為 0）
func (c GameConfig) MaxPaddleOffset() float64 {
	return c.CanvasSize - c.PaddleSize
}
