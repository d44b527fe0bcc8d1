// Package rxkit is the client-side session and API access layer for the
// RxWare pharmacy-wholesale platform.
//
// Everything a screen needs lives behind four collaborators that this
// package wires together from configuration:
//
//   - session.Manager  – the single authentication state machine
//   - apiclient.Client – authenticated calls to the business backend
//   - tokenstore.TokenStore – the one durable slot for the bearer credential
//   - authroute.Handler – the exactly-once authentication-failure path
//
// Basic usage:
//
//	cfg, err := rxkit.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	kit, err := rxkit.New(ctx, cfg,
//	    rxkit.WithNavigator(appRouter.Navigate),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer kit.Close()
//
//	if err := kit.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	for state := range kit.Sessions.Subscribe(ctx) {
//	    render(state)
//	}
//
// Configuration comes from environment variables (with an optional .env
// file); see the Config types of the individual packages for the knobs.
package rxkit
