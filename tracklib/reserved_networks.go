package tracklib

import (
	"fmt"
	"net"

	"github.com/EvilSuperstars/go-cidrman"
	"github.com/asergeyev/nradix"
)

// DefaultReservedNetworks are networks which cannot be geolocated:
// private, loopback, link-local, documentation, multicast and so on.
var DefaultReservedNetworks = []string{
	"0.0.0.0/8",
	"10.0.0.0/8",
	"100.64.0.0/10",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"172.16.0.0/12",
	"192.0.0.0/24",
	"192.0.2.0/24",
	"192.168.0.0/16",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"224.0.0.0/4",
	"240.0.0.0/4",
	"::/128",
	"::1/128",
	"100::/64",
	"2001:db8::/32",
	"fc00::/7",
	"fe80::/10",
	"ff00::/8",
}

// ReservedNetworks answers if address belongs to some network we are
// not going to send to providers.
type ReservedNetworks struct {
	tree4    *nradix.Tree
	networks []string
	v6       []*net.IPNet
}

func (r *ReservedNetworks) Contains(ip net.IP) bool {
	if r == nil || ip == nil {
		return false
	}

	if ip4 := ip.To4(); ip4 != nil {
		value, err := r.tree4.FindCIDR(ip4.String() + "/32")

		return err == nil && value != nil
	}

	for _, v := range r.v6 {
		if v.Contains(ip) {
			return true
		}
	}

	return false
}

// Networks returns a normalized list of networks: IPv4 ranges are
// merged.
func (r *ReservedNetworks) Networks() []string {
	rv := make([]string, 0, len(r.networks)+len(r.v6))
	rv = append(rv, r.networks...)

	for _, v := range r.v6 {
		rv = append(rv, v.String())
	}

	return rv
}

// NewReservedNetworks builds a set from DefaultReservedNetworks and
// given extra CIDRs.
func NewReservedNetworks(extra []string) (*ReservedNetworks, error) {
	v4 := []string{}
	rv := &ReservedNetworks{
		tree4: nradix.NewTree(0),
	}
	seenV6 := map[string]bool{}

	for _, v := range append(append([]string{}, DefaultReservedNetworks...), extra...) {
		_, ipNet, err := net.ParseCIDR(v)
		if err != nil {
			return nil, fmt.Errorf("incorrect network %s: %w", v, err)
		}

		if ipNet.IP.To4() != nil {
			v4 = append(v4, ipNet.String())

			continue
		}

		if !seenV6[ipNet.String()] {
			seenV6[ipNet.String()] = true
			rv.v6 = append(rv.v6, ipNet)
		}
	}

	merged, err := cidrman.MergeCIDRs(v4)
	if err != nil {
		return nil, fmt.Errorf("cannot merge networks: %w", err)
	}

	for _, v := range merged {
		if err := rv.tree4.AddCIDR(v, true); err != nil && err != nradix.ErrNodeBusy {
			return nil, fmt.Errorf("cannot add network %s: %w", v, err)
		}
	}

	rv.networks = merged

	return rv, nil
}
