package core

import (
	"errors"
	"fmt"
	"time"
)

// ChartType 图表类型
type ChartType string

const (
	ChartLine ChartType = "line"
	ChartArea ChartType = "area"
	ChartBar  ChartType = "bar"
)

// ChartTypes 按切换顺序排列的全部图表类型
var ChartTypes = []ChartType{ChartLine, ChartArea, ChartBar}

// Theme 配色主题
type Theme string

const (
	ThemeBlue   Theme = "blue"
	ThemeGreen  Theme = "green"
	ThemePurple Theme = "purple"
	ThemeOrange Theme = "orange"
)

// Themes 按切换顺序排列的全部主题
var Themes = []Theme{ThemeBlue, ThemeGreen, ThemePurple, ThemeOrange}

// ThemeColors 主题的主色和辅色（十六进制，不带#）
type ThemeColors struct {
	Primary   string
	Secondary string
}

var themeColors = map[Theme]ThemeColors{
	ThemeBlue:   {Primary: "3B82F6", Secondary: "8B5CF6"},
	ThemeGreen:  {Primary: "10B981", Secondary: "34D399"},
	ThemePurple: {Primary: "8B5CF6", Secondary: "A78BFA"},
	ThemeOrange: {Primary: "F59E0B", Secondary: "FB923C"},
}

// Colors 返回主题配色，未知主题回退到蓝色
func (t Theme) Colors() ThemeColors {
	if c, ok := themeColors[t]; ok {
		return c
	}
	return themeColors[ThemeBlue]
}

// 设置项的取值范围
const (
	MinInterval        = 100 * time.Millisecond
	MaxInterval        = 2 * time.Second
	MinSmoothingFactor = 0.1
	MaxSmoothingFactor = 0.9
	MinDataPoints      = 30
	MaxDataPoints      = 120
)

// Settings 会话级别的设置，仅保存在内存中
type Settings struct {
	Interval          time.Duration // 探测间隔
	Smoothing         bool          // 是否开启指数平滑
	SmoothingFactor   float64       // 平滑系数α
	ChartType         ChartType     // 图表类型
	ShowGrid          bool          // 显示网格
	ShowReferenceLine bool          // 显示平均值参考线
	AnimateChart      bool          // 图表动画（影响重放键）
	MaxDataPoints     int           // 滚动缓冲区容量
	Theme             Theme         // 配色主题
	ColorCodedPoints  bool          // 按质量着色数据点
	ShowDataLabels    bool          // 显示数据标签
	LocalMode         bool          // 使用本地模拟探测
}

// DefaultSettings 返回默认设置
func DefaultSettings() Settings {
	return Settings{
		Interval:          500 * time.Millisecond,
		Smoothing:         false,
		SmoothingFactor:   0.3,
		ChartType:         ChartLine,
		ShowGrid:          true,
		ShowReferenceLine: true,
		AnimateChart:      false,
		MaxDataPoints:     60,
		Theme:             ThemeBlue,
		ColorCodedPoints:  true,
		ShowDataLabels:    false,
		LocalMode:         false,
	}
}

// Validate 验证设置的合理性
func (s Settings) Validate() error {
	if s.Interval < MinInterval || s.Interval > MaxInterval {
		return fmt.Errorf("探测间隔必须在%v到%v之间，当前为%v", MinInterval, MaxInterval, s.Interval)
	}

	if s.SmoothingFactor < MinSmoothingFactor || s.SmoothingFactor > MaxSmoothingFactor {
		return fmt.Errorf("平滑系数必须在%.1f到%.1f之间，当前为%.2f", MinSmoothingFactor, MaxSmoothingFactor, s.SmoothingFactor)
	}

	if s.MaxDataPoints < MinDataPoints || s.MaxDataPoints > MaxDataPoints {
		return fmt.Errorf("缓冲区容量必须在%d到%d之间，当前为%d", MinDataPoints, MaxDataPoints, s.MaxDataPoints)
	}

	if !validChartType(s.ChartType) {
		return errors.New("图表类型必须是line、area或bar")
	}

	if _, ok := themeColors[s.Theme]; !ok {
		return errors.New("主题必须是blue、green、purple或orange")
	}

	return nil
}

func validChartType(c ChartType) bool {
	for _, t := range ChartTypes {
		if t == c {
			return true
		}
	}
	return false
}

// NextChartType 返回切换顺序中的下一个图表类型
func NextChartType(c ChartType) ChartType {
	for i, t := range ChartTypes {
		if t == c {
			return ChartTypes[(i+1)%len(ChartTypes)]
		}
	}
	return ChartLine
}

// NextTheme 返回切换顺序中的下一个主题
func NextTheme(th Theme) Theme {
	for i, t := range Themes {
		if t == th {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeBlue
}
