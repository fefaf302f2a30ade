// Package client implements a typed Go client for the Datambit deepfake-detection API.
//
// It wraps the authenticated access layer from client/auth/transport and adds:
//   - Login, registration and logout, honouring the "remember me" choice and the
//     recorded storage consent when picking the credential tier.
//   - Password reset and access requests.
//   - Media upload, report listing and report detail.
//   - Support tickets.
//
// Example:
//
//	credentials := store.NewMemory()
//	cli := client.New(transport.New(schema.DefaultBaseURL, credentials))
//	if err := cli.Login(ctx, "user@example.com", "secret", false); err != nil {
//		return err
//	}
//	page, _ := cli.RecentUploads(ctx, 1, 10, "")
//	fmt.Println(page.Total)
package client
