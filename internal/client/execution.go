package client

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"os"

	"github.com/pkg/errors"
)

func loadCertificates(sslCrtFile, sslKeyFile string) ([]tls.Certificate, error) {
	if sslCrtFile == "" || sslKeyFile == "" {
		return nil, nil
	}
	certificate, err := tls.LoadX509KeyPair(sslCrtFile, sslKeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "error while loading client certificate")
	}
	return []tls.Certificate{certificate}, nil
}

func loadCaCertPool(sslCaFile string) (*x509.CertPool, error) {
	if sslCaFile == "" {
		return nil, nil
	}
	bytes, err := os.ReadFile(sslCaFile)
	if err != nil {
		return nil, errors.Wrap(err, "error while reading ca file")
	}
	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(bytes) {
		return nil, errors.Errorf("no certificates found in %s", sslCaFile)
	}
	return caCertPool, nil
}

// getTransport returns nil when no ssl file is configured so the client
// keeps using the default transport; a ca file alone is enough to verify
// the remote store, the certificate and key are only needed for mutual tls
func getTransport(sslCaFile, sslCrtFile, sslKeyFile string) (*http.Transport, error) {
	if sslCaFile == "" && sslCrtFile == "" && sslKeyFile == "" {
		return nil, nil
	}
	caCertPool, err := loadCaCertPool(sslCaFile)
	if err != nil {
		return nil, err
	}
	certificates, err := loadCertificates(sslCrtFile, sslKeyFile)
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		MinVersion:   tls.VersionTLS12,
		RootCAs:      caCertPool,
		Certificates: certificates,
	}
	return transport, nil
}
