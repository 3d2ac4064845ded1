package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"crowdfund/internal/payment"
	"crowdfund/internal/views"
)

// wizard returns the session's wizard for the campaign in the URL,
// starting one when needed.
func (a *App) wizard(r *http.Request) (*payment.Wizard, error) {
	id, err := campaignID(r)
	if err != nil {
		return nil, err
	}
	sess := a.session(r)
	if wz, ok := sess.ExistingWizard(id); ok {
		return wz, nil
	}
	campaign, err := a.Gateway.Campaign(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return sess.Wizard(campaign), nil
}

func paymentPath(wz *payment.Wizard) string {
	return fmt.Sprintf("/payment/%d", wz.Campaign().ID)
}

func (a *App) Payment(w http.ResponseWriter, r *http.Request) {
	wz, err := a.wizard(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	campaign := wz.Campaign()
	if fresh, err := a.Gateway.Campaign(r.Context(), campaign.ID); err == nil {
		campaign = fresh
	}
	page := views.NewPaymentPage(a.base(w, r), views.NewCampaignView(campaign, a.Now()), wz.State())
	page.Invalid = r.URL.Query().Get("invalid") != ""
	a.render(w, r, http.StatusOK, views.PagePayment, page)
}

// paymentAction adapts a wizard transition into a form handler that
// redirects back to the wizard page. Transitions the current step does not
// offer are ignored, as a stale form would be.
func (a *App) paymentAction(step func(*payment.Wizard, *http.Request) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wz, err := a.wizard(r)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		to, err := step(wz, r)
		if err != nil && !errors.Is(err, payment.ErrWrongStep) && !errors.Is(err, payment.ErrBusy) {
			a.fail(w, r, err)
			return
		}
		if to == "" {
			to = paymentPath(wz)
		}
		redirect(w, r, to)
	}
}

func (a *App) PaymentPreset() http.HandlerFunc {
	return a.paymentAction(func(wz *payment.Wizard, r *http.Request) (string, error) {
		_, err := wz.SelectPreset(r.FormValue("amount"))
		return "", err
	})
}

func (a *App) PaymentCustom() http.HandlerFunc {
	return a.paymentAction(func(wz *payment.Wizard, r *http.Request) (string, error) {
		ok, err := wz.SubmitCustom(r.FormValue("amount"))
		if err == nil && !ok {
			return paymentPath(wz) + "?invalid=1", nil
		}
		return "", err
	})
}

func (a *App) PaymentOptions() http.HandlerFunc {
	return a.paymentAction(func(wz *payment.Wizard, r *http.Request) (string, error) {
		return "", wz.SetOptions(payment.Options{
			Message:   strings.TrimSpace(r.FormValue("message")),
			Anonymous: r.FormValue("anonymous") == "true",
		})
	})
}

func (a *App) PaymentBack() http.HandlerFunc {
	return a.paymentAction(func(wz *payment.Wizard, r *http.Request) (string, error) {
		return "", wz.Back()
	})
}

func (a *App) PaymentConfirm() http.HandlerFunc {
	return a.paymentAction(func(wz *payment.Wizard, r *http.Request) (string, error) {
		return "", wz.Confirm(r.Context())
	})
}

func (a *App) PaymentReset() http.HandlerFunc {
	return a.paymentAction(func(wz *payment.Wizard, r *http.Request) (string, error) {
		if err := wz.Reset(); err != nil {
			return "", err
		}
		a.session(r).DropWizard(wz.Campaign().ID)
		return safeNext(r, paymentPath(wz)), nil
	})
}
