// Package devtls mints the throwaway TLS identity sealserve uses when no real
// certificate is configured.
package devtls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"time"
)

// DefaultValidity is how long an ephemeral certificate stays valid. Restarting
// the server mints a fresh one, so there is no reason to make this long.
const DefaultValidity = 24 * time.Hour

// Ephemeral generates a self-signed ECDSA P-256 server certificate covering
// the given hosts, and returns a tls.Config that serves it. The private key
// never touches disk. Clients will warn about the unknown issuer, which is
// the expected tradeoff for a zero-setup preview server.
func Ephemeral(validity time.Duration, hosts ...string) (*tls.Config, error) {
	if len(hosts) == 0 {
		return nil, fmt.Errorf("no hosts specified")
	}
	if validity <= 0 {
		return nil, fmt.Errorf("invalid validity interval: %s", validity)
	}
	keypair, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ECDSA key pair: %w", err)
	}
	serialLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serial, err := rand.Int(rand.Reader, serialLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to generate certificate serial: %w", err)
	}

	now := time.Now().UTC()
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   hosts[0],
			Organization: []string{"sealdrop preview"},
		},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(validity),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	for _, host := range hosts {
		if ip := net.ParseIP(host); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
			continue
		}
		template.DNSNames = append(template.DNSNames, host)
	}

	certBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &keypair.PublicKey, keypair)
	if err != nil {
		return nil, fmt.Errorf("failed to create self-signed certificate: %w", err)
	}
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		Certificates: []tls.Certificate{{
			Certificate: [][]byte{certBytes},
			PrivateKey:  keypair,
		}},
	}, nil
}
