package cert

import (
	"crypto/x509"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/bytetransport/internal/crypto/ed25519"
)

func newCertificate(t *testing.T, validity time.Duration) (ed25519.PublicKey, *x509.Certificate) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err, "Failed to generate Ed25519 key pair")

	cert, err := NewGenerator(Config{
		PublicKey:          pub,
		PrivateKey:         priv,
		CertValidityPeriod: validity,
	}).GenerateCertificate()
	require.NoError(t, err, "Failed to generate certificate")
	require.NotNil(t, cert.Leaf)
	return pub, cert.Leaf
}

func TestValidateCertificateSuccess(t *testing.T) {
	pub, leaf := newCertificate(t, 24*time.Hour)

	validator := NewValidator()
	require.NoError(t, validator.ValidateCertificate(leaf))

	extracted, err := validator.ExtractPublicKey(leaf)
	require.NoError(t, err)
	assert.Equal(t, pub, extracted)
}

func TestSelfSigned(t *testing.T) {
	cert, err := SelfSigned(time.Hour)
	require.NoError(t, err)
	assert.NoError(t, NewValidator().ValidateCertificate(cert.Leaf))
}

func TestValidateCertificateFailsForMismatchedPublicKey(t *testing.T) {
	_, leaf := newCertificate(t, 24*time.Hour)

	wrongPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err, "Failed to generate a new Ed25519 key pair")
	leaf.PublicKey = wrongPub

	err = NewValidator().ValidateCertificate(leaf)
	assert.ErrorContains(t, err, "DNS name does not match public key")
}

func TestValidateCertificateFailsForBadSignature(t *testing.T) {
	_, leaf := newCertificate(t, 24*time.Hour)

	leaf.Signature = append([]byte(nil), leaf.Signature...)
	leaf.Signature[0] ^= 0xff

	err := NewValidator().ValidateCertificate(leaf)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestCertificateDNSNameFormat(t *testing.T) {
	pub, leaf := newCertificate(t, 24*time.Hour)

	require.Len(t, leaf.DNSNames, 1, "Certificate must have exactly one DNS name")
	dnsName := leaf.DNSNames[0]
	assert.Len(t, dnsName, 53)
	assert.Equal(t, byte('e'), dnsName[0])
	assert.Equal(t, EncodePubKeyToDNS(pub), dnsName)
}

func TestCertificateParseDER(t *testing.T) {
	_, leaf := newCertificate(t, 24*time.Hour)

	parsedCert, err := x509.ParseCertificate(leaf.Raw)
	require.NoError(t, err, "Failed to parse generated certificate DER")
	assert.NoError(t, NewValidator().ValidateCertificate(parsedCert))
}

func TestValidateCertificateExpired(t *testing.T) {
	_, leaf := newCertificate(t, -1*time.Hour)

	err := NewValidator().ValidateCertificate(leaf)
	assert.ErrorContains(t, err, "certificate has expired")
}

func TestValidateCertificateFutureStartDate(t *testing.T) {
	_, leaf := newCertificate(t, 24*time.Hour)
	leaf.NotBefore = time.Now().Add(1 * time.Hour)

	err := NewValidator().ValidateCertificate(leaf)
	assert.ErrorContains(t, err, "certificate is not yet valid")
}

func TestValidateCertificateNil(t *testing.T) {
	assert.Error(t, NewValidator().ValidateCertificate(nil))
}
