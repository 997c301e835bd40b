// Package account loads the logged-in artist's profile and payout details.
//
//	svc := account.NewService(client, account.Paths{
//	    AuthCheck: "/api/auth/check",
//	    Profile:   "/api/profile/",
//	    Payment:   "/api/payment-details/",
//	}, logger)
//
//	acct, err := svc.Load(ctx)
//	if errors.Is(err, account.ErrNotAuthenticated) {
//	    // ask the artist to log in
//	}
//	acct.Prefill(session)
package account
