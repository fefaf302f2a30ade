// Package datambit provides a Go client for the Datambit deepfake-detection API.
//
// NewClient wires the credential store, the token refresh coordinator and the
// request dispatcher from ClientOptions, which can be loaded from YAML with
// LoadOptions or populated from command line flags.
//
// Example:
//
//	options, err := datambit.LoadOptions(ctx, "~/.datambit/config.yaml")
//	if err != nil {
//		return err
//	}
//	cli, err := datambit.NewClient(options)
//	if err != nil {
//		return err
//	}
//	if err = cli.Login(ctx, username, password, true); err != nil {
//		return err
//	}
//
// The client keeps the session in memory unless a durable store location is
// configured and the user accepted durable storage with SetConsent.
package datambit
