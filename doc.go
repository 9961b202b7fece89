// Package amcards provides a Go client for the AMcards API, a service that
// prints and mails physical greeting cards.
//
// Basic usage:
//
//	client, err := amcards.New(os.Getenv("AMCARDS_ACCESS_TOKEN"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.SendCard(ctx, templateID, amcards.Address{
//	    amcards.FirstName:    "Ada",
//	    amcards.LastName:     "Lovelace",
//	    amcards.AddressLine1: "12 St James's Square",
//	    amcards.City:         "Raleigh",
//	    amcards.State:        "NC",
//	    amcards.PostalCode:   "27601",
//	}, amcards.WithSendDate("2030-05-01"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Card:", resp.CardID, "cost:", resp.TotalCost)
//
// # Sends
//
// SendCard, SendCampaign, SendCards, SendCardCost and SendCampaignCost all
// check their input first: required address fields, date and phone formats,
// and resource ids. A failed check returns an error for which
// IsValidationError is true, and no request is made. Otherwise exactly one
// request is made; nothing is retried, since a retried send can mail a
// second card.
//
// # Errors
//
// Domain failures are *Error values tagged with a Kind. Match them with
// errors.Is:
//
//	switch {
//	case errors.Is(err, amcards.ErrInsufficientCredits):
//	    // top up the account
//	case errors.Is(err, amcards.ErrForbiddenResource):
//	    // the template or campaign belongs to another account
//	case amcards.IsValidationError(err):
//	    // fix the input
//	}
package amcards
