package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"crowdfund/internal/domain"
	"crowdfund/internal/views"
	"crowdfund/internal/withdraw"
)

// withdrawPage loads the connected wallet's campaigns into the session's
// flow and builds the page from the flow state.
func (a *App) withdrawPage(w http.ResponseWriter, r *http.Request) (views.WithdrawPage, *withdraw.Flow, error) {
	page := views.WithdrawPage{Base: a.base(w, r)}
	flow := a.session(r).Withdraw()
	if !page.Connected() {
		return page, flow, nil
	}
	if !flow.Submitting() {
		mine, err := a.Gateway.ListUserCampaigns(r.Context(), page.Wallet)
		if err != nil {
			return page, flow, err
		}
		flow.Load(mine)
	}
	fillWithdrawPage(&page, flow, a)
	return page, flow, nil
}

func fillWithdrawPage(page *views.WithdrawPage, flow *withdraw.Flow, a *App) {
	now := a.Now()
	page.Campaigns = views.NewCampaignViews(flow.Campaigns(), now)
	page.Selected = nil
	page.SelectedID = -1
	if c, ok := flow.Selected(); ok {
		v := views.NewCampaignView(c, now)
		page.Selected = &v
		page.SelectedID = c.ID
	}
	page.Amount = flow.Amount()
	page.Summary = nil
	if s, ok := flow.Summary(); ok {
		page.Summary = &s
	}
}

func (a *App) Withdraw(w http.ResponseWriter, r *http.Request) {
	page, _, err := a.withdrawPage(w, r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	page.Rejected = r.URL.Query().Get("rejected") != ""
	a.render(w, r, http.StatusOK, views.PageWithdraw, page)
}

func (a *App) WithdrawSelect(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.Wallet.Address(); !ok {
		a.fail(w, r, domain.ErrWalletNotConnected)
		return
	}
	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		a.fail(w, r, domain.ErrNotFound)
		return
	}
	if err := a.session(r).Withdraw().Select(id); err != nil {
		a.fail(w, r, err)
		return
	}
	redirect(w, r, "/withdraw")
}

func (a *App) WithdrawAmount(w http.ResponseWriter, r *http.Request) {
	if !a.session(r).Withdraw().SetAmount(r.FormValue("amount")) {
		redirect(w, r, "/withdraw?rejected=1")
		return
	}
	redirect(w, r, "/withdraw")
}

func (a *App) WithdrawMax(w http.ResponseWriter, r *http.Request) {
	if err := a.session(r).Withdraw().Max(); err != nil && !errors.Is(err, withdraw.ErrNoSelection) {
		a.fail(w, r, err)
		return
	}
	redirect(w, r, "/withdraw")
}

// WithdrawSubmit renders the outcome directly so the receipt or failure is
// shown once.
func (a *App) WithdrawSubmit(w http.ResponseWriter, r *http.Request) {
	flow := a.session(r).Withdraw()
	receipt, err := flow.Submit(r.Context())

	page, _, loadErr := a.withdrawPage(w, r)
	if loadErr != nil {
		a.fail(w, r, loadErr)
		return
	}
	status := http.StatusOK
	switch {
	case err == nil:
		page.Receipt = &receipt
	case errors.Is(err, withdraw.ErrBusy):
		page.Busy = true
		status = http.StatusConflict
	case errors.Is(err, withdraw.ErrNoSelection), errors.Is(err, withdraw.ErrNoAmount):
		page.Rejected = true
		status = http.StatusUnprocessableEntity
	default:
		page.Failed = err.Error()
		status = statusFor(err)
	}
	a.render(w, r, status, views.PageWithdraw, page)
}
