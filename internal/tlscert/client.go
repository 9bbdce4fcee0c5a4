package tlscert

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"go_sitebuilder/internal/model"

	"github.com/go-acme/lego/v4/certificate"
	"github.com/go-acme/lego/v4/challenge"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/registration"
	"gorm.io/gorm"
)

// LegoClient obtains certificates via ACME with HTTP-01 challenges
type LegoClient struct {
	db           *gorm.DB
	provider     challenge.Provider
	directoryURL string
	email        string
}

// IssueResult holds the material of an obtained certificate
type IssueResult struct {
	CertPem  string
	KeyPem   string
	ChainPem string
	Issuer   string
	NotAfter time.Time
}

// NewLegoClient creates a lego client
func NewLegoClient(db *gorm.DB, provider challenge.Provider, directoryURL, email string) *LegoClient {
	return &LegoClient{
		db:           db,
		provider:     provider,
		directoryURL: directoryURL,
		email:        email,
	}
}

// User implements registration.User interface for lego
type User struct {
	Email        string
	Registration *registration.Resource
	key          crypto.PrivateKey
}

func (u *User) GetEmail() string {
	return u.Email
}

func (u *User) GetRegistration() *registration.Resource {
	return u.Registration
}

func (u *User) GetPrivateKey() crypto.PrivateKey {
	return u.key
}

// EnsureAccount loads the registered ACME account, creating and
// registering one on first use.
func (c *LegoClient) EnsureAccount() (*model.AcmeAccount, error) {
	var account model.AcmeAccount
	err := c.db.Order("id ASC").First(&account).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load acme account: %w", err)
	}
	if err == nil && account.RegistrationURI != "" {
		return &account, nil
	}

	var privateKey crypto.PrivateKey
	if account.AccountKeyPem != "" {
		privateKey, err = parsePrivateKey(account.AccountKeyPem)
		if err != nil {
			return nil, fmt.Errorf("failed to parse account key: %w", err)
		}
	} else {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to generate account key: %w", err)
		}
		keyPem, err := encodePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("failed to encode account key: %w", err)
		}
		privateKey = key
		account.AccountKeyPem = keyPem
	}
	account.Email = c.email

	config := lego.NewConfig(&User{
		Email: account.Email,
		key:   privateKey,
	})
	config.CADirURL = c.directoryURL

	client, err := lego.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create lego client: %w", err)
	}

	reg, err := client.Registration.Register(registration.RegisterOptions{
		TermsOfServiceAgreed: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register ACME account: %w", err)
	}
	account.RegistrationURI = reg.URI

	if err := c.db.Save(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	return &account, nil
}

// RequestCertificate obtains a certificate for the domain
func (c *LegoClient) RequestCertificate(account *model.AcmeAccount, domain string) (*IssueResult, error) {
	privateKey, err := parsePrivateKey(account.AccountKeyPem)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account key: %w", err)
	}

	user := &User{
		Email: account.Email,
		Registration: &registration.Resource{
			URI: account.RegistrationURI,
		},
		key: privateKey,
	}

	config := lego.NewConfig(user)
	config.CADirURL = c.directoryURL

	client, err := lego.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create lego client: %w", err)
	}

	if err := client.Challenge.SetHTTP01Provider(c.provider); err != nil {
		return nil, fmt.Errorf("failed to set HTTP-01 provider: %w", err)
	}

	request := certificate.ObtainRequest{
		Domains: []string{domain},
		Bundle:  true,
	}

	certificates, err := client.Certificate.Obtain(request)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain certificate: %w", err)
	}

	certBlock, _ := pem.Decode(certificates.Certificate)
	if certBlock == nil {
		return nil, errors.New("failed to decode certificate PEM")
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	return &IssueResult{
		CertPem:  string(certificates.Certificate),
		KeyPem:   string(certificates.PrivateKey),
		ChainPem: string(certificates.IssuerCertificate),
		Issuer:   cert.Issuer.CommonName,
		NotAfter: cert.NotAfter,
	}, nil
}

// parsePrivateKey parses a PEM-encoded private key
func parsePrivateKey(keyPem string) (crypto.PrivateKey, error) {
	block, _ := pem.Decode([]byte(keyPem))
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	return nil, errors.New("unsupported private key type")
}

// encodePrivateKey encodes a private key to PEM format
func encodePrivateKey(key crypto.PrivateKey) (string, error) {
	k, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return "", errors.New("unsupported private key type")
	}

	keyBytes, err := x509.MarshalECPrivateKey(k)
	if err != nil {
		return "", err
	}

	block := &pem.Block{
		Type:  "EC PRIVATE KEY",
		Bytes: keyBytes,
	}
	return string(pem.EncodeToMemory(block)), nil
}
