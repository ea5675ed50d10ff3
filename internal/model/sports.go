package model

// TeamStats holds per-match averages for one team.
type TeamStats struct {
	Team        string  `json:"team"`
	AvgGoals    float64 `json:"avg_goals"`
	AvgCorners  float64 `json:"avg_corners"`
	WinPercent  float64 `json:"win_percent"`
	DrawPercent float64 `json:"draw_percent"`
	LossPercent float64 `json:"loss_percent"`
}

// OddsAdvice is the odds engine's output for one market.
type OddsAdvice struct {
	Market      string  `json:"market"`
	Advice      string  `json:"signal"`
	Probability float64 `json:"probability"`
}
