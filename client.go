package datambit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/datambit/datambit/client"
	"github.com/datambit/datambit/client/auth/store"
	authtransport "github.com/datambit/datambit/client/auth/transport"
	"github.com/datambit/datambit/schema"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultStoreLocation = ".datambit/credentials.json"
)

// ClientOptions
//
// defines options for configuring a Datambit client.
type ClientOptions struct {
	BaseURL              string        `yaml:"baseURL,omitempty" json:"baseURL,omitempty"  short:"u" long:"url" description:"api base url"`
	Store                ClientStore   `yaml:"store,omitempty" json:"store,omitempty"`
	Timeout              time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"  long:"timeout" description:"api call timeout, e.g. 30s"`
	UploadTimeout        time.Duration `yaml:"uploadTimeout,omitempty" json:"uploadTimeout,omitempty"  long:"upload-timeout" description:"upload timeout, e.g. 3m"`
	PurgeOnReauthFailure bool          `yaml:"purgeOnReauthFailure,omitempty" json:"purgeOnReauthFailure,omitempty"  long:"purge-on-reauth-failure" description:"remove stored credentials when the session cannot be refreshed"`

	// HTTPClient, if set, is used for every API call; Timeout is then ignored for the transport.
	HTTPClient *http.Client `yaml:"-" json:"-" no-flag:"true"`
	Logger     *slog.Logger `yaml:"-" json:"-" no-flag:"true"`
	// OnUnauthenticated is called when a login is required.
	OnUnauthenticated func(ctx context.Context) `yaml:"-" json:"-"`
}

// ClientStore defines where the durable credential tier lives.
type ClientStore struct {
	Location      string `yaml:"location,omitempty" json:"location,omitempty"  short:"s" long:"store" description:"durable credential file URL"`
	EncryptionKey string `yaml:"encryptionKey,omitempty" json:"encryptionKey,omitempty"  short:"k" long:"key" description:"encryption key, e.g. blowfish://default"`
	Memory        bool   `yaml:"memory,omitempty" json:"memory,omitempty"  short:"m" long:"memory" description:"keep credentials in memory only"`
}

// Init fills in defaults.
func (c *ClientOptions) Init() {
	if c.BaseURL == "" {
		c.BaseURL = schema.DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.UploadTimeout == 0 {
		c.UploadTimeout = client.DefaultUploadTimeout
	}
	if c.Store.Location == "" && !c.Store.Memory {
		if home, err := os.UserHomeDir(); err == nil {
			c.Store.Location = filepath.Join(home, defaultStoreLocation)
		} else {
			c.Store.Memory = true
		}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// NewClient creates a Datambit client with credential storage and the access layer configured via ClientOptions.
func NewClient(options *ClientOptions, dispatcherOptions ...authtransport.Option) (*client.Client, error) {
	options.Init()
	credentials, err := options.credentialStore()
	if err != nil {
		return nil, err
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	opts := []authtransport.Option{
		authtransport.WithHTTPClient(httpClient),
		authtransport.WithLogger(options.Logger),
		authtransport.WithPurgeOnReauthFailure(options.PurgeOnReauthFailure),
	}
	if options.OnUnauthenticated != nil {
		opts = append(opts, authtransport.WithUnauthenticated(options.OnUnauthenticated))
	}
	opts = append(opts, dispatcherOptions...)
	dispatcher := authtransport.New(options.BaseURL, credentials, opts...)
	return client.New(dispatcher,
		client.WithTimeout(options.Timeout),
		client.WithUploadTimeout(options.UploadTimeout),
		client.WithLogger(options.Logger)), nil
}

func (c *ClientOptions) credentialStore() (*store.Store, error) {
	if c.Store.Memory {
		return store.NewMemory(store.WithLogger(c.Logger)), nil
	}
	var fileOptions []store.FileOption
	if c.Store.EncryptionKey != "" {
		fileOptions = append(fileOptions, store.WithEncryptionKey(c.Store.EncryptionKey))
	}
	durable, err := store.NewFileStorage(expandHome(c.Store.Location), fileOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store %v: %w", c.Store.Location, err)
	}
	return store.New(durable, store.NewMemoryStorage(), store.WithLogger(c.Logger)), nil
}

// LoadOptions reads ClientOptions from a YAML or JSON document at URL.
func LoadOptions(ctx context.Context, URL string) (*ClientOptions, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, expandHome(URL))
	if err != nil {
		return nil, fmt.Errorf("failed to load options %v: %w", URL, err)
	}
	ret := &ClientOptions{}
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode options %v: %w", URL, err)
	}
	return ret, nil
}

func expandHome(location string) string {
	if !strings.HasPrefix(location, "~/") {
		return location
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return location
	}
	return filepath.Join(home, location[2:])
}
