package handlers

import (
	"fmt"
	"net/http"

	"crowdfund/internal/domain"
)

func (a *App) Connect(w http.ResponseWriter, r *http.Request) {
	addr, err := a.Wallet.Connect(r.Context())
	if err != nil {
		a.logger(r).Warn().Err(err).Msg("wallet connect failed")
		a.fail(w, r, fmt.Errorf("%w: %v", domain.ErrWalletNotConnected, err))
		return
	}
	a.logger(r).Info().Str("wallet", addr).Msg("wallet connected")
	redirect(w, r, safeNext(r, "/"))
}
