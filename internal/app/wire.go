package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avelex/tradehook/internal/authz"
	"github.com/avelex/tradehook/internal/awsx"
	"github.com/avelex/tradehook/internal/config"
	"github.com/avelex/tradehook/internal/dydx"
	"github.com/avelex/tradehook/internal/executor"
	"github.com/avelex/tradehook/internal/notify"
	"github.com/avelex/tradehook/internal/server"
	"github.com/avelex/tradehook/internal/server/handler"
)

// Deps holds the fully wired dependency graph for one process.
type Deps struct {
	Server *server.Server
	Wallet *dydx.Wallet
}

// Wire constructs every dependency in leaf-first order. The signing
// credential and the notification webhook config are fetched exactly once
// here; the allow-list is deliberately NOT fetched here, since the authorizer
// re-reads it on every check.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Deps, func(), error) {
	awsCfg, err := awsx.LoadConfig(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, nil, err
	}

	params := awsx.NewParams(awsx.NewSSMClient(awsCfg), cfg.AWS.AllowListParam, cfg.AWS.MessageParam)
	secrets := awsx.NewSecrets(awsx.NewSecretsClient(awsCfg), cfg.AWS.SecretName)

	cred, err := secrets.SigningCredential(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("app: fetch signing credential: %w", err)
	}

	wallet, err := dydx.NewWallet(cred.Mnemonic, cred.Address)
	if err != nil {
		return nil, nil, fmt.Errorf("app: build wallet: %w", err)
	}

	msgCfg, err := params.MessageConfig(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("app: fetch message config: %w", err)
	}

	discord := notify.NewDiscordSender(msgCfg.WebhookID, msgCfg.WebhookToken, cfg.Notify.Username)
	notifier := notify.NewNotifier([]notify.Sender{discord}, logger)

	indexer := dydx.NewIndexerClient(cfg.Dydx.IndexerHost)
	node := dydx.NewNodeClient(cfg.Dydx.NodeHost)
	submitter := dydx.NewSubmitter(wallet, node, cfg.Dydx.ChainID, logger)

	pipeline := executor.New(
		executor.Config{
			Address:           wallet.Address(),
			Subaccount:        cfg.Dydx.Subaccount,
			FreeCollateralMin: cfg.Trading.FreeCollateralMin,
			PriceFloor:        cfg.Trading.PriceFloor,
			PriceCeiling:      cfg.Trading.PriceCeiling,
			GoodTilBlocks:     cfg.Trading.GoodTilBlocks,
		},
		indexer,
		indexer,
		node,
		submitter,
		executor.NewIDGenerator(cfg.Trading.ClientIDStrategy),
		executor.NewDedup(cfg.Trading.DedupTTL.Duration),
		logger,
	)

	authorizer := authz.New(params, logger)

	srv := server.NewServer(
		server.Config{
			Port:            cfg.Server.Port,
			ForwardedHeader: cfg.Server.ForwardedHeader,
		},
		server.Handlers{
			Health:  handler.NewHealthHandler(),
			Webhook: handler.NewWebhookHandler(pipeline, notifier, logger),
		},
		authorizer,
		logger,
	)

	cleanup := func() {
		// HTTP clients need no explicit teardown; the server is shut down
		// by App.Run.
	}

	return &Deps{Server: srv, Wallet: wallet}, cleanup, nil
}
