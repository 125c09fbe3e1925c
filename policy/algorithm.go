package policy

import (
	"fmt"
	"sync"

	"github.com/keywarden/keywarden/interfaces"
)

// Policy store keys understood by the parser.
const (
	KeyEncryptionType              = "EncryptionType"
	KeyEncryptionAlgorithm         = "EncryptionAlgorithm"
	KeyEncryptionAlgorithmKeySize  = "EncryptionAlgorithmKeySize"
	KeyEncryptionAlgorithmProvider = "EncryptionAlgorithmProvider"
	KeyHashAlgorithm               = "HashAlgorithm"
	KeyHashAlgorithmProvider       = "HashAlgorithmProvider"
	KeyEncryptionAlgorithmType     = "EncryptionAlgorithmType"
	KeyValidationAlgorithmType     = "ValidationAlgorithmType"
	KeyKeyEscrowSinks              = "KeyEscrowSinks"
	KeyDefaultKeyLifetime          = "DefaultKeyLifetime"
)

// EncryptionType discriminator tokens. Matching is case-sensitive.
const (
	EncryptionTypeCngCbc  = "cng-cbc"
	EncryptionTypeCngGcm  = "cng-gcm"
	EncryptionTypeManaged = "managed"
)

// AlgorithmRole distinguishes cipher types from validation (MAC) types in
// the managed algorithm registry.
type AlgorithmRole int

const (
	// RoleCipher marks symmetric encryption algorithm types.
	RoleCipher AlgorithmRole = iota
	// RoleValidator marks integrity validation algorithm types.
	RoleValidator
)

// String returns the role name.
func (r AlgorithmRole) String() string {
	switch r {
	case RoleCipher:
		return "cipher"
	case RoleValidator:
		return "validator"
	default:
		return "unknown"
	}
}

// AlgorithmType is a handle for a managed-mode algorithm, resolved from a
// type-name string through the package registry.
type AlgorithmType struct {
	Name string
	Role AlgorithmRole
}

var (
	algorithmTypesMu sync.RWMutex
	algorithmTypes   = map[string]AlgorithmType{
		"AES":        {Name: "AES", Role: RoleCipher},
		"TripleDES":  {Name: "TripleDES", Role: RoleCipher},
		"HMACSHA1":   {Name: "HMACSHA1", Role: RoleValidator},
		"HMACSHA256": {Name: "HMACSHA256", Role: RoleValidator},
		"HMACSHA384": {Name: "HMACSHA384", Role: RoleValidator},
		"HMACSHA512": {Name: "HMACSHA512", Role: RoleValidator},
	}
)

// RegisterAlgorithmType adds a managed algorithm type to the registry,
// overwriting any previous registration under the same name. Hosts call
// this at startup to extend the built-in set.
func RegisterAlgorithmType(t AlgorithmType) {
	algorithmTypesMu.Lock()
	defer algorithmTypesMu.Unlock()
	algorithmTypes[t.Name] = t
}

// ResolveAlgorithmType resolves a type-name string to a registered handle
// and checks it fills the required role. Unknown names and role mismatches
// are configuration errors.
func ResolveAlgorithmType(name string, role AlgorithmRole) (AlgorithmType, error) {
	algorithmTypesMu.RLock()
	t, ok := algorithmTypes[name]
	algorithmTypesMu.RUnlock()
	if !ok {
		return AlgorithmType{}, fmt.Errorf("%w: unknown algorithm type %q", interfaces.ErrConfiguration, name)
	}
	if t.Role != role {
		return AlgorithmType{}, fmt.Errorf("%w: algorithm type %q is a %s, %s required", interfaces.ErrConfiguration, name, t.Role, role)
	}
	return t, nil
}

// AlgorithmConfiguration is the authenticated-encryption configuration for
// application payloads. It is a closed variant: exactly CngCbcConfiguration,
// CngGcmConfiguration, or ManagedConfiguration.
type AlgorithmConfiguration interface {
	// EncryptionType returns the discriminator token for this variant.
	EncryptionType() string

	isAlgorithmConfiguration()
}

// CngCbcConfiguration selects Windows CNG CBC-mode encryption with HMAC
// validation. An empty provider means the platform default provider.
type CngCbcConfiguration struct {
	EncryptionAlgorithm         string
	EncryptionAlgorithmKeySize  int
	EncryptionAlgorithmProvider string
	HashAlgorithm               string
	HashAlgorithmProvider       string
}

// DefaultCngCbc returns the compiled-in CNG-CBC defaults: AES-256-CBC with
// HMACSHA256 validation.
func DefaultCngCbc() *CngCbcConfiguration {
	return &CngCbcConfiguration{
		EncryptionAlgorithm:        "AES",
		EncryptionAlgorithmKeySize: 256,
		HashAlgorithm:              "SHA256",
	}
}

// EncryptionType returns the cng-cbc discriminator token.
func (c *CngCbcConfiguration) EncryptionType() string { return EncryptionTypeCngCbc }

func (c *CngCbcConfiguration) isAlgorithmConfiguration() {}

// CngGcmConfiguration selects Windows CNG Galois/Counter Mode authenticated
// encryption. An empty provider means the platform default provider.
type CngGcmConfiguration struct {
	EncryptionAlgorithm         string
	EncryptionAlgorithmKeySize  int
	EncryptionAlgorithmProvider string
}

// DefaultCngGcm returns the compiled-in CNG-GCM defaults: AES-256-GCM.
func DefaultCngGcm() *CngGcmConfiguration {
	return &CngGcmConfiguration{
		EncryptionAlgorithm:        "AES",
		EncryptionAlgorithmKeySize: 256,
	}
}

// EncryptionType returns the cng-gcm discriminator token.
func (c *CngGcmConfiguration) EncryptionType() string { return EncryptionTypeCngGcm }

func (c *CngGcmConfiguration) isAlgorithmConfiguration() {}

// ManagedConfiguration selects portable managed-mode encryption with
// algorithm types resolved through the registry.
type ManagedConfiguration struct {
	EncryptionAlgorithmType    AlgorithmType
	EncryptionAlgorithmKeySize int
	ValidationAlgorithmType    AlgorithmType
}

// DefaultManaged returns the compiled-in managed-mode defaults: AES-256
// with HMACSHA256 validation.
func DefaultManaged() *ManagedConfiguration {
	return &ManagedConfiguration{
		EncryptionAlgorithmType:    AlgorithmType{Name: "AES", Role: RoleCipher},
		EncryptionAlgorithmKeySize: 256,
		ValidationAlgorithmType:    AlgorithmType{Name: "HMACSHA256", Role: RoleValidator},
	}
}

// EncryptionType returns the managed discriminator token.
func (c *ManagedConfiguration) EncryptionType() string { return EncryptionTypeManaged }

func (c *ManagedConfiguration) isAlgorithmConfiguration() {}

// DefaultAlgorithmConfiguration is the hard-coded fallback used when
// neither administrator policy nor the host asserts a configuration.
func DefaultAlgorithmConfiguration() AlgorithmConfiguration {
	return DefaultManaged()
}

// ParseAlgorithm produces the authenticated-encryption configuration
// asserted by administrator policy. If the EncryptionType key is absent it
// returns (nil, nil): no policy is asserted and a caller-level default
// applies. An unrecognized token or a malformed field value is a
// configuration error.
//
// Field overrides are independent and idempotent: fields not mentioned in
// policy keep their compiled-in defaults, and parsing the same values twice
// yields field-equal configurations.
func ParseAlgorithm(values interfaces.PolicyValues) (AlgorithmConfiguration, error) {
	token, ok, err := values.GetString(KeyEncryptionType)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	switch token {
	case EncryptionTypeCngCbc:
		return parseCngCbc(values)
	case EncryptionTypeCngGcm:
		return parseCngGcm(values)
	case EncryptionTypeManaged:
		return parseManaged(values)
	default:
		return nil, fmt.Errorf("%w: unrecognized EncryptionType %q", interfaces.ErrConfiguration, token)
	}
}

func parseCngCbc(values interfaces.PolicyValues) (*CngCbcConfiguration, error) {
	cfg := DefaultCngCbc()

	if v, ok, err := values.GetString(KeyEncryptionAlgorithm); err != nil {
		return nil, err
	} else if ok {
		cfg.EncryptionAlgorithm = v
	}
	if v, ok, err := values.GetInt(KeyEncryptionAlgorithmKeySize); err != nil {
		return nil, err
	} else if ok {
		cfg.EncryptionAlgorithmKeySize = v
	}
	if v, ok, err := values.GetString(KeyEncryptionAlgorithmProvider); err != nil {
		return nil, err
	} else if ok {
		cfg.EncryptionAlgorithmProvider = v
	}
	if v, ok, err := values.GetString(KeyHashAlgorithm); err != nil {
		return nil, err
	} else if ok {
		cfg.HashAlgorithm = v
	}
	if v, ok, err := values.GetString(KeyHashAlgorithmProvider); err != nil {
		return nil, err
	} else if ok {
		cfg.HashAlgorithmProvider = v
	}

	return cfg, nil
}

func parseCngGcm(values interfaces.PolicyValues) (*CngGcmConfiguration, error) {
	cfg := DefaultCngGcm()

	if v, ok, err := values.GetString(KeyEncryptionAlgorithm); err != nil {
		return nil, err
	} else if ok {
		cfg.EncryptionAlgorithm = v
	}
	if v, ok, err := values.GetInt(KeyEncryptionAlgorithmKeySize); err != nil {
		return nil, err
	} else if ok {
		cfg.EncryptionAlgorithmKeySize = v
	}
	if v, ok, err := values.GetString(KeyEncryptionAlgorithmProvider); err != nil {
		return nil, err
	} else if ok {
		cfg.EncryptionAlgorithmProvider = v
	}

	return cfg, nil
}

func parseManaged(values interfaces.PolicyValues) (*ManagedConfiguration, error) {
	cfg := DefaultManaged()

	if v, ok, err := values.GetString(KeyEncryptionAlgorithmType); err != nil {
		return nil, err
	} else if ok {
		t, err := ResolveAlgorithmType(v, RoleCipher)
		if err != nil {
			return nil, err
		}
		cfg.EncryptionAlgorithmType = t
	}
	if v, ok, err := values.GetInt(KeyEncryptionAlgorithmKeySize); err != nil {
		return nil, err
	} else if ok {
		cfg.EncryptionAlgorithmKeySize = v
	}
	if v, ok, err := values.GetString(KeyValidationAlgorithmType); err != nil {
		return nil, err
	} else if ok {
		t, err := ResolveAlgorithmType(v, RoleValidator)
		if err != nil {
			return nil, err
		}
		cfg.ValidationAlgorithmType = t
	}

	return cfg, nil
}
