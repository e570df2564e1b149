package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc selects a proxy for dataset downloads. Explicit proxies win over the
// environment; hosts listed in noProxy (comma separated, suffix match) bypass them.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := splitHosts(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		host := req.URL.Hostname()
		for _, h := range bypass {
			if host == h || strings.HasSuffix(host, "."+h) {
				return nil, nil
			}
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func splitHosts(list string) []string {
	var hosts []string
	for _, h := range strings.Split(list, ",") {
		h = strings.TrimPrefix(strings.TrimSpace(h), ".")
		if h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
