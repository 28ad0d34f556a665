package models

type PredictRequest struct {
	Player   string `json:"player" validate:"required,max=64"`
	Opponent string `json:"opponent" validate:"required,max=8"`
	Week     *int   `json:"week,omitempty" validate:"omitempty,min=1,max=22"`
}

// Query converts the request to an engine query.
func (r PredictRequest) Query() PredictionQuery {
	return PredictionQuery{PlayerName: r.Player, Opponent: r.Opponent, Week: r.Week}
}

type BatchPredictRequest struct {
	Queries []PredictRequest `json:"queries" validate:"required,min=1,dive"`
}

type BatchPredictItem struct {
	Query  PredictRequest    `json:"query"`
	Result *PredictionResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type BatchPredictResponse struct {
	Results []BatchPredictItem `json:"results"`
}

type PlayersResponse struct {
	Role    string        `json:"role,omitempty"`
	Players []KnownPlayer `json:"players"`
}

type ReloadResponse struct {
	RequestID string `json:"request_id"`
	Queued    bool   `json:"queued"`
}
