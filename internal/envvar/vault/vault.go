package vault

import (
	"path"
	"strings"

	"github.com/hashicorp/vault/api"

	"github.com/sanLimbu/todo-tracker/internal"
)

// Provider ...
type Provider struct {
	path    string
	logical *api.Logical
}

// New instantiates the Vault client.
func New(token, addr, path string) (*Provider, error) {
	config := api.DefaultConfig()
	config.Address = addr

	client, err := api.NewClient(config)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "api.NewClient")
	}

	client.SetToken(token)

	return &Provider{
		path:    path,
		logical: client.Logical(),
	}, nil
}

// Get retrieves the value indicated by v, using the format "secret:key".
func (p *Provider) Get(v string) (string, error) {
	secretName, key, ok := strings.Cut(v, ":")
	if !ok || secretName == "" || key == "" {
		return "", internal.NewErrorf(internal.ErrorCodeInvalidArgument, "invalid value %q, expected secret:key", v)
	}

	secret, err := p.logical.Read(path.Join(p.path, secretName))
	if err != nil {
		return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "logical.Read")
	}

	if secret == nil {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "secret %q not found", secretName)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeUnknown, "secret %q has no data", secretName)
	}

	value, ok := data[key].(string)
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "key %q not found", key)
	}

	return value, nil
}
