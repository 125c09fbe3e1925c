package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keywarden/keywarden/interfaces"
)

func TestParseAlgorithm_NoPolicyAsserted(t *testing.T) {
	cfg, err := ParseAlgorithm(interfaces.NewPolicyValues(nil))
	require.NoError(t, err)
	assert.Nil(t, cfg, "absent EncryptionType must assert no configuration")
}

func TestParseAlgorithm_CngCbcDefaults(t *testing.T) {
	values := interfaces.NewPolicyValues(map[string]interfaces.PolicyValue{
		"EncryptionType": interfaces.StringValue("cng-cbc"),
	})

	cfg, err := ParseAlgorithm(values)
	require.NoError(t, err)
	require.IsType(t, &CngCbcConfiguration{}, cfg)
	assert.Equal(t, DefaultCngCbc(), cfg.(*CngCbcConfiguration))
}

func TestParseAlgorithm_CngCbcFullOverride(t *testing.T) {
	values := interfaces.NewPolicyValues(map[string]interfaces.PolicyValue{
		"EncryptionType":              interfaces.StringValue("cng-cbc"),
		"EncryptionAlgorithm":         interfaces.StringValue("enc-alg"),
		"EncryptionAlgorithmKeySize":  interfaces.IntValue(2048),
		"EncryptionAlgorithmProvider": interfaces.StringValue("my-enc-alg-provider"),
		"HashAlgorithm":               interfaces.StringValue("hash-alg"),
		"HashAlgorithmProvider":       interfaces.StringValue("my-hash-alg-provider"),
	})

	cfg, err := ParseAlgorithm(values)
	require.NoError(t, err)

	expected := &CngCbcConfiguration{
		EncryptionAlgorithm:         "enc-alg",
		EncryptionAlgorithmKeySize:  2048,
		EncryptionAlgorithmProvider: "my-enc-alg-provider",
		HashAlgorithm:               "hash-alg",
		HashAlgorithmProvider:       "my-hash-alg-provider",
	}
	assert.Equal(t, expected, cfg)
}

func TestParseAlgorithm_CngCbcPartialOverride(t *testing.T) {
	values := interfaces.NewPolicyValues(map[string]interfaces.PolicyValue{
		"EncryptionType":             interfaces.StringValue("cng-cbc"),
		"EncryptionAlgorithmKeySize": interfaces.IntValue(128),
	})

	cfg, err := ParseAlgorithm(values)
	require.NoError(t, err)

	expected := DefaultCngCbc()
	expected.EncryptionAlgorithmKeySize = 128
	assert.Equal(t, expected, cfg, "fields not mentioned in policy must keep their defaults")
}

func TestParseAlgorithm_CngGcm(t *testing.T) {
	tests := []struct {
		name     string
		values   map[string]interfaces.PolicyValue
		expected *CngGcmConfiguration
	}{
		{
			name: "defaults",
			values: map[string]interfaces.PolicyValue{
				"EncryptionType": interfaces.StringValue("cng-gcm"),
			},
			expected: DefaultCngGcm(),
		},
		{
			name: "provider override",
			values: map[string]interfaces.PolicyValue{
				"EncryptionType":              interfaces.StringValue("cng-gcm"),
				"EncryptionAlgorithmProvider": interfaces.StringValue("my-provider"),
			},
			expected: &CngGcmConfiguration{
				EncryptionAlgorithm:         "AES",
				EncryptionAlgorithmKeySize:  256,
				EncryptionAlgorithmProvider: "my-provider",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseAlgorithm(interfaces.NewPolicyValues(tt.values))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestParseAlgorithm_Managed(t *testing.T) {
	values := interfaces.NewPolicyValues(map[string]interfaces.PolicyValue{
		"EncryptionType":             interfaces.StringValue("managed"),
		"EncryptionAlgorithmType":    interfaces.StringValue("TripleDES"),
		"EncryptionAlgorithmKeySize": interfaces.IntValue(2048),
		"ValidationAlgorithmType":    interfaces.StringValue("HMACSHA1"),
	})

	cfg, err := ParseAlgorithm(values)
	require.NoError(t, err)

	expected := &ManagedConfiguration{
		EncryptionAlgorithmType:    AlgorithmType{Name: "TripleDES", Role: RoleCipher},
		EncryptionAlgorithmKeySize: 2048,
		ValidationAlgorithmType:    AlgorithmType{Name: "HMACSHA1", Role: RoleValidator},
	}
	assert.Equal(t, expected, cfg)
}

func TestParseAlgorithm_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interfaces.PolicyValue
	}{
		{
			name: "unknown encryption type",
			values: map[string]interfaces.PolicyValue{
				"EncryptionType": interfaces.StringValue("unknown"),
			},
		},
		{
			name: "token match is case-sensitive",
			values: map[string]interfaces.PolicyValue{
				"EncryptionType": interfaces.StringValue("CNG-CBC"),
			},
		},
		{
			name: "non-numeric key size",
			values: map[string]interfaces.PolicyValue{
				"EncryptionType":             interfaces.StringValue("cng-cbc"),
				"EncryptionAlgorithmKeySize": interfaces.StringValue("big"),
			},
		},
		{
			name: "unknown managed cipher type",
			values: map[string]interfaces.PolicyValue{
				"EncryptionType":          interfaces.StringValue("managed"),
				"EncryptionAlgorithmType": interfaces.StringValue("ROT13"),
			},
		},
		{
			name: "validator used as cipher",
			values: map[string]interfaces.PolicyValue{
				"EncryptionType":          interfaces.StringValue("managed"),
				"EncryptionAlgorithmType": interfaces.StringValue("HMACSHA256"),
			},
		},
		{
			name: "cipher used as validator",
			values: map[string]interfaces.PolicyValue{
				"EncryptionType":          interfaces.StringValue("managed"),
				"ValidationAlgorithmType": interfaces.StringValue("AES"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseAlgorithm(interfaces.NewPolicyValues(tt.values))
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, interfaces.ErrConfiguration)
		})
	}
}

func TestParseAlgorithm_Idempotent(t *testing.T) {
	values := interfaces.NewPolicyValues(map[string]interfaces.PolicyValue{
		"EncryptionType":             interfaces.StringValue("cng-cbc"),
		"EncryptionAlgorithm":        interfaces.StringValue("enc-alg"),
		"EncryptionAlgorithmKeySize": interfaces.IntValue(2048),
	})

	first, err := ParseAlgorithm(values)
	require.NoError(t, err)
	second, err := ParseAlgorithm(values)
	require.NoError(t, err)

	assert.Equal(t, first, second, "parsing the same policy twice must yield field-equal configurations")
}

func TestParseAlgorithm_KeysCaseInsensitive(t *testing.T) {
	values := interfaces.NewPolicyValues(map[string]interfaces.PolicyValue{
		"encryptiontype":             interfaces.StringValue("cng-cbc"),
		"ENCRYPTIONALGORITHMKEYSIZE": interfaces.IntValue(128),
	})

	cfg, err := ParseAlgorithm(values)
	require.NoError(t, err)

	expected := DefaultCngCbc()
	expected.EncryptionAlgorithmKeySize = 128
	assert.Equal(t, expected, cfg)
}

func TestRegisterAlgorithmType(t *testing.T) {
	RegisterAlgorithmType(AlgorithmType{Name: "Twofish", Role: RoleCipher})

	got, err := ResolveAlgorithmType("Twofish", RoleCipher)
	require.NoError(t, err)
	assert.Equal(t, AlgorithmType{Name: "Twofish", Role: RoleCipher}, got)
}
