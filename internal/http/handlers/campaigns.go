package handlers

import (
	"errors"
	"net/http"
	"strings"

	"crowdfund/internal/domain"
	"crowdfund/internal/format"
	"crowdfund/internal/gateway"
	"crowdfund/internal/storage"
	"crowdfund/internal/views"
)

const maxCreateBody = storage.MaxImageBytes + 1<<20

func (a *App) Home(w http.ResponseWriter, r *http.Request) {
	page := views.ListPage{Base: a.base(w, r)}
	status := http.StatusOK
	campaigns, err := a.Gateway.ListCampaigns(r.Context())
	if err != nil {
		if !gateway.IsUnavailable(err) {
			a.fail(w, r, err)
			return
		}
		page.Unavailable = true
		status = http.StatusServiceUnavailable
	}
	page.Campaigns = views.NewCampaignViews(campaigns, a.Now())
	a.render(w, r, status, views.PageHome, page)
}

func (a *App) Profile(w http.ResponseWriter, r *http.Request) {
	page := views.ListPage{Base: a.base(w, r)}
	if !page.Connected() {
		a.render(w, r, http.StatusOK, views.PageProfile, page)
		return
	}
	status := http.StatusOK
	campaigns, err := a.Gateway.ListUserCampaigns(r.Context(), page.Wallet)
	if err != nil {
		if !gateway.IsUnavailable(err) {
			a.fail(w, r, err)
			return
		}
		page.Unavailable = true
		status = http.StatusServiceUnavailable
	}
	page.Campaigns = views.NewCampaignViews(campaigns, a.Now())
	a.render(w, r, status, views.PageProfile, page)
}

func (a *App) CampaignDetails(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	campaign, err := a.Gateway.Campaign(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	donations, err := a.Gateway.ListDonations(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	base := a.base(w, r)
	a.render(w, r, http.StatusOK, views.PageDetail, views.DetailPage{
		Base:      base,
		Campaign:  views.NewCampaignView(campaign, a.Now()),
		Donations: donations,
		IsOwner:   base.Wallet != "" && strings.EqualFold(base.Wallet, campaign.Owner),
	})
}

func (a *App) CreateCampaignForm(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, views.PageCreate, views.CreatePage{Base: a.base(w, r)})
}

func (a *App) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)
	if err := r.ParseMultipartForm(maxCreateBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		a.fail(w, r, errors.Join(domain.ErrInvalidInput, err))
		return
	}

	page := views.CreatePage{
		Base: a.base(w, r),
		Form: domain.CampaignForm{
			Title:       strings.TrimSpace(r.FormValue("title")),
			Description: strings.TrimSpace(r.FormValue("description")),
			Target:      strings.TrimSpace(r.FormValue("target")),
			Deadline:    strings.TrimSpace(r.FormValue("deadline")),
			Image:       strings.TrimSpace(r.FormValue("image")),
		},
	}
	if !page.Connected() {
		a.render(w, r, http.StatusUnauthorized, views.PageCreate, page)
		return
	}

	page.Errors = a.validateCampaign(page.Form)
	if page.Form.Image == "" {
		if url, err := a.uploadImage(r); err != nil {
			page.Errors["image"] = "create.err.image"
			a.logger(r).Warn().Err(err).Msg("campaign image upload rejected")
		} else if url != "" {
			page.Form.Image = url
		} else {
			page.Errors["image"] = "create.err.image"
		}
	}
	if len(page.Errors) > 0 {
		a.render(w, r, http.StatusUnprocessableEntity, views.PageCreate, page)
		return
	}

	hash, err := a.Gateway.CreateCampaign(r.Context(), page.Wallet, page.Form)
	if err != nil {
		a.logger(r).Error().Err(err).Str("title", page.Form.Title).Msg("create campaign failed")
		page.Failed = err.Error()
		a.render(w, r, statusFor(err), views.PageCreate, page)
		return
	}
	a.logger(r).Info().Str("tx", hash).Str("title", page.Form.Title).Msg("campaign created")
	redirect(w, r, "/")
}

// validateCampaign returns message keys per invalid field.
func (a *App) validateCampaign(f domain.CampaignForm) map[string]string {
	errs := map[string]string{}
	if f.Title == "" {
		errs["title"] = "create.err.required"
	}
	if f.Description == "" {
		errs["description"] = "create.err.required"
	}
	if wei, err := format.ParseEther(f.Target); err != nil || wei.Sign() <= 0 {
		errs["target"] = "create.err.target"
	}
	if d, err := gateway.ParseDeadline(f.Deadline); err != nil || !d.After(a.Now()) {
		errs["deadline"] = "create.err.deadline"
	}
	return errs
}

// uploadImage stores the optional image_file part. It returns "" when no
// file was sent.
func (a *App) uploadImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image_file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()
	if a.Uploader == nil {
		return "", errors.New("image upload is not configured")
	}
	return a.Uploader.Upload(r.Context(), header.Filename, file)
}
