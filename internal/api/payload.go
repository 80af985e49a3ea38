package api

type screenPayload struct {
	Index int `json:"index"`
}

type screensResponse struct {
	Screens []screenPayload `json:"screens"`
}
