package service

import (
	"context"

	"biopay/internal/openpayments"
	pkgerrors "biopay/pkg/domainerrors"
)

// requestIncomingPaymentGrant obtains the non-interactive grant used to create
// the incoming payment on the receiving side.
func (s *Service) requestIncomingPaymentGrant(ctx context.Context, receiver *openpayments.WalletAddress) (*openpayments.Grant, error) {
	defer s.observeStage(stageGrant, s.clock())

	grant, err := s.client.RequestGrant(ctx, receiver.AuthServer, openpayments.GrantRequest{
		AccessToken: openpayments.AccessTokenRequest{
			Access: []openpayments.AccessItem{{
				Type:    openpayments.TypeIncomingPayment,
				Actions: []string{"read", "complete", "create"},
			}},
		},
	})
	if err != nil {
		s.metrics.IncPaymentFailed(stageGrant)
		return nil, pkgerrors.Wrap(pkgerrors.CodeGrantRequest, "request incoming-payment grant", err)
	}
	if !grant.Finalized() {
		s.metrics.IncPaymentFailed(stageGrant)
		return nil, pkgerrors.New(pkgerrors.CodeGrantRequest, "incoming-payment grant arrived without an access token")
	}
	return grant, nil
}

// requestQuoteGrant obtains the non-interactive grant used to create the quote
// on the sending side.
func (s *Service) requestQuoteGrant(ctx context.Context, sender *openpayments.WalletAddress) (*openpayments.Grant, error) {
	defer s.observeStage(stageGrant, s.clock())

	grant, err := s.client.RequestGrant(ctx, sender.AuthServer, openpayments.GrantRequest{
		AccessToken: openpayments.AccessTokenRequest{
			Access: []openpayments.AccessItem{{
				Type:    openpayments.TypeQuote,
				Actions: []string{"create", "read"},
			}},
		},
	})
	if err != nil {
		s.metrics.IncPaymentFailed(stageGrant)
		return nil, pkgerrors.Wrap(pkgerrors.CodeGrantRequest, "request quote grant", err)
	}
	if !grant.Finalized() {
		s.metrics.IncPaymentFailed(stageGrant)
		return nil, pkgerrors.New(pkgerrors.CodeGrantRequest, "quote grant arrived without an access token")
	}
	return grant, nil
}
