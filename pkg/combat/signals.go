package combat

// Signals 回放对外发出的通知，宿主（场景、工具、测试）按需订阅
type Signals struct {
	OnStepComplete     func(isLast bool)
	OnSequenceComplete func()
	OnVictoryComplete  func()
}

func (s Signals) stepComplete(isLast bool) {
	if s.OnStepComplete != nil {
		s.OnStepComplete(isLast)
	}
}

func (s Signals) sequenceComplete() {
	if s.OnSequenceComplete != nil {
		s.OnSequenceComplete()
	}
}

func (s Signals) victoryComplete() {
	if s.OnVictoryComplete != nil {
		s.OnVictoryComplete()
	}
}
