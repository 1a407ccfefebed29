package chain

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"

	"github.com/ethereum/go-ethereum/rpc"
)

// Options is the startup-time TLS material threaded into the client
// factory (spec §9: "a startup-time option struct ... not a process-wide
// singleton"). It also carries an optional bearer token for guarded RPC
// endpoints (spec §6.5 "<SIBLING>_JWT_TOKEN").
type Options struct {
	CertPath    string
	KeyPath     string
	CAPath      string
	BearerToken string
}

func (o Options) rpcOptions() ([]rpc.ClientOption, error) {
	httpClient, err := o.httpClient()
	if err != nil {
		return nil, fmt.Errorf("build tls http client: %w", err)
	}

	opts := []rpc.ClientOption{rpc.WithHTTPClient(httpClient)}
	if o.BearerToken != "" {
		opts = append(opts, rpc.WithHeader("Authorization", "Bearer "+o.BearerToken))
	}
	return opts, nil
}

func (o Options) httpClient() (*http.Client, error) {
	if o.CertPath == "" && o.KeyPath == "" && o.CAPath == "" {
		return http.DefaultClient, nil
	}

	tlsConfig := &tls.Config{}

	if o.CertPath != "" && o.KeyPath != "" {
		cert, err := tls.LoadX509KeyPair(o.CertPath, o.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if o.CAPath != "" {
		caBytes, err := os.ReadFile(o.CAPath)
		if err != nil {
			return nil, fmt.Errorf("read ca: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caBytes) {
			return nil, fmt.Errorf("parse ca pem: %s", o.CAPath)
		}
		tlsConfig.RootCAs = pool
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig
	return &http.Client{Transport: transport}, nil
}
