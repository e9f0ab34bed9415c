package configstore

import (
	"net/url"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

// App is the typed view of a Document.
type App struct {
	UserDID       string              `mapstructure:"user_did"`
	NodeAddress   string              `mapstructure:"non_quorum_node_address"`
	ContractsInfo map[string]Contract `mapstructure:"contracts_info"`
	DappServerApi string              `mapstructure:"dapp_server_api"`
	AuthToken     string              `mapstructure:"auth_token"`

	// flat keys written by older versions, nft only
	NFTContractHash string `mapstructure:"nft_contract_hash"`
	NFTContractPath string `mapstructure:"nft_contract_path"`
}

type Contract struct {
	Hash        string `mapstructure:"contract_hash"`
	Path        string `mapstructure:"contract_path"`
	CallbackUrl string `mapstructure:"callback_url"`
}

func Decode(doc Document) (*App, error) {
	var app App

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &app,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(map[string]any(doc)); err != nil {
		return nil, operation.NewError(operation.CodeValidation, "invalid configuration document", err)
	}

	return &app, nil
}

// Contract returns the contract configured for family. For nft the
// legacy flat keys fill in whatever contracts_info leaves empty.
func (a *App) Contract(family operation.Family) Contract {
	c := a.ContractsInfo[string(family)]

	if family == operation.NFT {
		if c.Hash == "" {
			c.Hash = a.NFTContractHash
		}
		if c.Path == "" {
			c.Path = a.NFTContractPath
		}
	}

	return c
}

// ContractByHash finds the family whose contract has the given hash.
func (a *App) ContractByHash(hash string) (operation.Family, Contract, bool) {
	for _, family := range []operation.Family{operation.NFT, operation.FT} {
		if c := a.Contract(family); c.Hash != "" && c.Hash == hash {
			return family, c, true
		}
	}
	return "", Contract{}, false
}

// CallbackRoutes returns the distinct paths the node is told to call back
// on: dapp_server_api first, then every contract callback_url in family
// order. Entries without a path are skipped.
func (a *App) CallbackRoutes() []string {
	var routes []string
	add := func(raw string) {
		if path := routePath(raw); path != "" && !slices.Contains(routes, path) {
			routes = append(routes, path)
		}
	}

	add(a.DappServerApi)

	families := make([]string, 0, len(a.ContractsInfo))
	for family := range a.ContractsInfo {
		families = append(families, family)
	}
	slices.Sort(families)

	for _, family := range families {
		add(a.ContractsInfo[family].CallbackUrl)
	}

	return routes
}

func routePath(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Path == "" || u.Path == "/" {
		return ""
	}
	if !strings.HasPrefix(u.Path, "/") {
		return "/" + u.Path
	}
	return u.Path
}
