package connectors

import (
	"context"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xssnick/tonutils-go/address"
)

// DeepLink hands the user off to a TON wallet app. There is no return channel.
type DeepLink struct {
	desc Descriptor
	addr *address.Address
	text string
}

func NewDeepLink(desc Descriptor, tonAddress, text string) (*DeepLink, error) {
	addr, err := address.ParseAddr(strings.TrimSpace(tonAddress))
	if err != nil {
		return nil, errors.Wrapf(err, "connector %s: ton address", desc.ID)
	}
	desc.Kind = KindExternalDeepLink
	desc.Flags |= FlagDeepLink
	return &DeepLink{desc: desc, addr: addr, text: text}, nil
}

func (d *DeepLink) Descriptor() Descriptor { return d.desc }

func (d *DeepLink) Connect(context.Context) (Provider, error) {
	return nil, ErrHandoffOnly
}

func (d *DeepLink) HandoffURL() string {
	u := url.URL{Scheme: "ton", Host: "transfer", Path: "/" + d.addr.String()}
	if d.text != "" {
		u.RawQuery = url.Values{"text": {d.text}}.Encode()
	}
	return u.String()
}
