package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() map[string]any {
	return map[string]any{
		"nombres":         "Juan",
		"apellidos":       "Ramirez",
		"genero":          "MASCULINO",
		"tipoDocumento":   "CEDULA",
		"numeroDocumento": "1001",
		"telefono":        "987654321",
		"email":           "juan@example.com",
		"password":        "secret",
		"tipoRol":         "ESTANDAR",
	}
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestNames(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{SchemaLogin, SchemaRefresh, SchemaRegister, SchemaRole, SchemaUserUpdate},
		Names())
}

func TestSource(t *testing.T) {
	raw, ok := Source(SchemaLogin)
	require.True(t, ok)
	assert.True(t, json.Valid(raw))

	for _, name := range []string{"", "missing", "../validator", "schemas/login", "login.json"} {
		_, ok := Source(name)
		assert.False(t, ok, name)
	}
}

func TestEmbeddedSchemasCompile(t *testing.T) {
	v, err := NewSchemaValidator(0)
	require.NoError(t, err)

	for _, name := range Names() {
		_, err := v.schema(name)
		require.NoError(t, err, name)
	}
	assert.Equal(t, len(Names()), v.CacheSize())
}

func TestValidate_Register(t *testing.T) {
	v, err := NewSchemaValidator(8)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, v.Validate(SchemaRegister, encode(t, validRegistration())))
	})

	t.Run("missing fields are all reported", func(t *testing.T) {
		body := validRegistration()
		delete(body, "email")
		delete(body, "tipoRol")

		err := v.Validate(SchemaRegister, encode(t, body))
		require.ErrorIs(t, err, ErrInvalidRequest)

		var verr *Error
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, SchemaRegister, verr.Schema)
		require.NotEmpty(t, verr.Violations)
		joined := verr.Error()
		assert.Contains(t, joined, "email")
		assert.Contains(t, joined, "tipoRol")
	})

	t.Run("bad email format", func(t *testing.T) {
		body := validRegistration()
		body["email"] = "not-an-email"

		var verr *Error
		require.ErrorAs(t, v.Validate(SchemaRegister, encode(t, body)), &verr)
		require.Len(t, verr.Violations, 1)
		assert.Contains(t, verr.Violations[0], "$.email")
	})

	t.Run("wrong type", func(t *testing.T) {
		body := validRegistration()
		body["telefono"] = 987654321

		var verr *Error
		require.ErrorAs(t, v.Validate(SchemaRegister, encode(t, body)), &verr)
		assert.Contains(t, verr.Violations[0], "$.telefono")
	})

	t.Run("password longer than bcrypt accepts", func(t *testing.T) {
		body := validRegistration()
		long := make([]byte, 73)
		for i := range long {
			long[i] = 'a'
		}
		body["password"] = string(long)

		require.ErrorIs(t, v.Validate(SchemaRegister, encode(t, body)), ErrInvalidRequest)
	})
}

func TestValidate_Malformed(t *testing.T) {
	v, err := NewSchemaValidator(8)
	require.NoError(t, err)

	var verr *Error
	require.ErrorAs(t, v.Validate(SchemaLogin, []byte(`{"email":`)), &verr)
	assert.Equal(t, []string{"request body is not valid JSON"}, verr.Violations)

	require.ErrorIs(t, v.Validate(SchemaLogin, []byte(`[]`)), ErrInvalidRequest)
}

func TestValidate_UnknownSchema(t *testing.T) {
	v, err := NewSchemaValidator(8)
	require.NoError(t, err)

	err = v.Validate("nope", []byte(`{}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidRequest)
}

func TestValidate_CacheEviction(t *testing.T) {
	v, err := NewSchemaValidator(1)
	require.NoError(t, err)

	require.NoError(t, v.Validate(SchemaRefresh, []byte(`{"refreshToken":"x"}`)))
	require.NoError(t, v.Validate(SchemaRole, []byte(`{"rol":"A","rolDescripcion":"d"}`)))
	assert.Equal(t, 1, v.CacheSize())

	require.ErrorIs(t, v.Validate(SchemaRefresh, []byte(`{}`)), ErrInvalidRequest)
}

func TestInstancePath(t *testing.T) {
	assert.Equal(t, "$", instancePath(nil))
	assert.Equal(t, "$", instancePath([]string{""}))
	assert.Equal(t, "$.email", instancePath([]string{"", "email"}))
	assert.Equal(t, "$.a.0", instancePath([]string{"a", "0"}))
}
