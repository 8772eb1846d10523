package components

// ScaleComponent 存储实体级别的缩放因子
// 文字类实体（飘字、倒计时、横幅）在渲染时乘以字号
//
// 暴击飘字的放大、倒计时数字的缩放补间都写在这里，
// 与 LabelComponent 的基础字号分开保存。
type ScaleComponent struct {
	// ScaleX X轴缩放因子（1.0 = 原始大小，0.5 = 50%，2.0 = 200%）
	ScaleX float64

	// ScaleY Y轴缩放因子（1.0 = 原始大小，0.5 = 50%，2.0 = 200%）
	ScaleY float64
}

// Uniform 统一缩放
func Uniform(s float64) *ScaleComponent {
	return &ScaleComponent{ScaleX: s, ScaleY: s}
}
