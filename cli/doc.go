// Package cli implements the datambit command line tool.
//
// Global flags configure the client (see datambit.ClientOptions); sub-commands
// map onto client operations:
//
//	datambit consent accepted
//	datambit login --user analyst@example.com --remember
//	datambit upload --media image a.png b.jpg
//	datambit reports --type image
//	datambit report <uploadID>
package cli
