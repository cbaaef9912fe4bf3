package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"biopay/internal/openpayments"
	pkgerrors "biopay/pkg/domainerrors"
)

// resolveParticipants fetches both wallet addresses concurrently. Metadata is
// fetched fresh per transaction; nothing is cached. Any failure aborts the
// pipeline before a single grant is requested.
func (s *Service) resolveParticipants(ctx context.Context, senderURL, receiverURL string) (sender, receiver *openpayments.WalletAddress, err error) {
	defer s.observeStage(stageResolve, s.clock())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wa, err := s.client.GetWalletAddress(gctx, senderURL)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeResolutionFailed, "resolve sending wallet", err)
		}
		sender = wa
		return nil
	})
	g.Go(func() error {
		wa, err := s.client.GetWalletAddress(gctx, receiverURL)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeResolutionFailed, "resolve receiving wallet", err)
		}
		receiver = wa
		return nil
	})
	if err := g.Wait(); err != nil {
		s.metrics.IncPaymentFailed(stageResolve)
		return nil, nil, err
	}
	return sender, receiver, nil
}
