package steam

import (
	"encoding/json"

	"steam-trends-service/internal/domain/reviews"
)

// Pointers distinguish an absent key from an empty value.
type topGamesResponse struct {
	Response *struct {
		Ranks *[]rankResponse `json:"ranks"`
	} `json:"response"`
}

type rankResponse struct {
	Rank       int  `json:"rank"`
	AppID      int  `json:"appid"`
	PeakInGame *int `json:"peak_in_game"`
}

type appDetailsEntry struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type reviewsResponse struct {
	Reviews *[]reviews.Review `json:"reviews"`
}
