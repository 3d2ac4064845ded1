package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"crowdfund/internal/domain"
	"crowdfund/internal/format"
)

type campaignJSON struct {
	ID              int    `json:"id"`
	Owner           string `json:"owner"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Target          string `json:"target"`
	Deadline        int64  `json:"deadline"`
	AmountCollected string `json:"amountCollected"`
	Image           string `json:"image"`
	DaysLeft        int    `json:"daysLeft"`
	Percent         int    `json:"percent"`
}

type donationJSON struct {
	Donator string `json:"donator"`
	Amount  string `json:"amount"`
}

func (a *App) apiError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := "upstream"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = "not_found"
	case errors.Is(err, domain.ErrContractUnavailable):
		code = "unavailable"
	case errors.Is(err, domain.ErrInvalidInput):
		code = "bad_request"
	}
	a.error(w, status, code, err.Error())
}

func (a *App) APICampaigns(w http.ResponseWriter, r *http.Request) {
	var (
		campaigns []domain.Campaign
		err       error
	)
	if owner := strings.TrimSpace(r.URL.Query().Get("owner")); owner != "" {
		campaigns, err = a.Gateway.ListUserCampaigns(r.Context(), owner)
	} else {
		campaigns, err = a.Gateway.ListCampaigns(r.Context())
	}
	if err != nil {
		a.apiError(w, err)
		return
	}
	now := a.Now()
	items := make([]campaignJSON, 0, len(campaigns))
	for _, c := range campaigns {
		items = append(items, toCampaignJSON(c, now))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) APIDonations(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		a.apiError(w, err)
		return
	}
	if _, err := a.Gateway.Campaign(r.Context(), id); err != nil {
		a.apiError(w, err)
		return
	}
	donations, err := a.Gateway.ListDonations(r.Context(), id)
	if err != nil {
		a.apiError(w, err)
		return
	}
	items := make([]donationJSON, 0, len(donations))
	for _, d := range donations {
		items = append(items, donationJSON{Donator: d.Donator, Amount: d.Amount})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func toCampaignJSON(c domain.Campaign, now time.Time) campaignJSON {
	return campaignJSON{
		ID:              c.ID,
		Owner:           c.Owner,
		Title:           c.Title,
		Description:     c.Description,
		Target:          c.Target,
		Deadline:        c.DeadlineMillis(),
		AmountCollected: c.AmountCollected,
		Image:           c.Image,
		DaysLeft:        format.DaysLeft(c.Deadline, now),
		Percent:         format.BarPercentage(c.Target, c.AmountCollected),
	}
}
