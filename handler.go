package statichosts

import (
	"context"
	"net"
	"time"

	"github.com/coredns/coredns/plugin"
	"github.com/coredns/coredns/plugin/pkg/dnsutil"
	"github.com/coredns/coredns/request"
	"github.com/miekg/dns"

	"github.com/etcdhosts/statichosts/internal/hosts"
)

// ServeDNS implements the plugin.Handler interface.
func (h *StaticHosts) ServeDNS(ctx context.Context, w dns.ResponseWriter, r *dns.Msg) (int, error) {
	state := request.Request{W: w, Req: r}
	qname := state.Name()
	qtype := state.QType()

	start := time.Now()
	defer func() {
		queryDuration.WithLabelValues(qtypeString(qtype)).Observe(time.Since(start).Seconds())
	}()

	var answers []dns.RR

	zone := plugin.Zones(h.Origins).Matches(qname)
	if zone == "" {
		// PTR zones don't need to be specified in Origins.
		if qtype != dns.TypePTR {
			return plugin.NextOrFailure(h.Name(), h.Next, ctx, w, r)
		}
	}

	switch qtype {
	case dns.TypePTR:
		if h.noReverse {
			return plugin.NextOrFailure(h.Name(), h.Next, ctx, w, r)
		}
		names := h.store.LookupAddr(dnsutil.ExtractAddressFromReverse(qname))
		if len(names) == 0 {
			queriesTotal.WithLabelValues("PTR", resultMiss).Inc()
			return plugin.NextOrFailure(h.Name(), h.Next, ctx, w, r)
		}
		answers = ptr(qname, h.TTL, names)
		queriesTotal.WithLabelValues("PTR", resultHit).Inc()

	case dns.TypeA:
		answers = a(qname, h.TTL, h.store.LookupV4(qname))
		countQuery("A", answers)

	case dns.TypeAAAA:
		answers = aaaa(qname, h.TTL, h.store.LookupV6(qname))
		countQuery("AAAA", answers)
	}

	if len(answers) == 0 && !h.store.Has(qname) {
		if h.Fall.Through(qname) {
			return plugin.NextOrFailure(h.Name(), h.Next, ctx, w, r)
		}
		// A hosts file has no SOA to build an NXDOMAIN from.
		return dns.RcodeServerFailure, nil
	}

	m := new(dns.Msg)
	m.SetReply(r)
	m.Authoritative = true
	m.Answer = answers

	_ = w.WriteMsg(m)
	return dns.RcodeSuccess, nil
}

// Name implements the plugin.Handler interface.
func (h *StaticHosts) Name() string { return pluginName }

func countQuery(qtype string, answers []dns.RR) {
	if len(answers) > 0 {
		queriesTotal.WithLabelValues(qtype, resultHit).Inc()
	} else {
		queriesTotal.WithLabelValues(qtype, resultMiss).Inc()
	}
}

var qtypeLabels = map[uint16]string{
	dns.TypeA:    "A",
	dns.TypeAAAA: "AAAA",
	dns.TypePTR:  "PTR",
}

// qtypeString returns the metric label for a DNS query type.
func qtypeString(qtype uint16) string {
	if l, ok := qtypeLabels[qtype]; ok {
		return l
	}
	return "OTHER"
}

// a creates A records from addresses.
func a(zone string, ttl uint32, addrs []hosts.Address) []dns.RR {
	return rrs(addrs, func(ip net.IP) dns.RR {
		return &dns.A{Hdr: dns.RR_Header{Name: zone, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: ttl}, A: ip}
	})
}

// aaaa creates AAAA records from addresses.
func aaaa(zone string, ttl uint32, addrs []hosts.Address) []dns.RR {
	return rrs(addrs, func(ip net.IP) dns.RR {
		return &dns.AAAA{Hdr: dns.RR_Header{Name: zone, Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: ttl}, AAAA: ip}
	})
}

func rrs(addrs []hosts.Address, fn func(net.IP) dns.RR) []dns.RR {
	if len(addrs) == 0 {
		return nil
	}
	answers := make([]dns.RR, len(addrs))
	for i, addr := range addrs {
		answers[i] = fn(addr.IP())
	}
	return answers
}

// ptr answers a reverse query with one PTR per hosts name.
func ptr(qname string, ttl uint32, names []string) []dns.RR {
	hdr := dns.RR_Header{Name: qname, Rrtype: dns.TypePTR, Class: dns.ClassINET, Ttl: ttl}
	answers := make([]dns.RR, 0, len(names))
	for _, n := range names {
		answers = append(answers, &dns.PTR{Hdr: hdr, Ptr: dns.Fqdn(n)})
	}
	return answers
}
