package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"myphone/internal/apierror"
	"myphone/internal/dto"
	"myphone/internal/middleware"
	"myphone/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalFlag(t *testing.T) {
	d, err := decimalFlag("precio-ars", "")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = decimalFlag("precio-ars", "850000.50")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "850000.5", d.String())

	_, err = decimalFlag("fx", "mil")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--fx")
}

func TestCuotas_RejectsUnknownChannelBeforeConnecting(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"cuotas", "--precio-ars", "1000", "--canal", "cheque"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cuotasCanal = "standard"
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown channel")
}

func TestCanje_RejectsBatteryOutOfRange(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"canje", "--modelo", "iPhone 13", "--bateria", "140"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		canjeBateria = 100
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--bateria")
}

func TestMintToken(t *testing.T) {
	signed, err := mintToken("s3cret", middleware.RolVendedor, "ana", "centro", time.Hour)
	require.NoError(t, err)

	claims := &middleware.JWTClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) { return []byte("s3cret"), nil })
	require.NoError(t, err)
	assert.Equal(t, middleware.RolVendedor, claims.Rol)
	assert.Equal(t, "centro", claims.Sucursal)
	_, err = uuid.Parse(claims.UserID)
	assert.NoError(t, err)

	_, err = mintToken("", middleware.RolVendedor, "ana", "", time.Hour)
	assert.Error(t, err)
	_, err = mintToken("s3cret", "cajero", "ana", "", time.Hour)
	assert.Error(t, err)
}

// seedReglas accepts the first rule of each kind and reports every later one
// as already present.
type seedReglas struct {
	service.ReglasService
	pricing, canje int
	fail           error
}

func (s *seedReglas) CrearPricing(context.Context, dto.CrearPricingRuleRequest) (*dto.PricingRuleResponse, error) {
	s.pricing++
	if s.fail != nil {
		return nil, s.fail
	}
	if s.pricing > 1 {
		return nil, apierror.NewStoreError(apierror.CodeDuplicado, "ya existe")
	}
	return &dto.PricingRuleResponse{}, nil
}

func (s *seedReglas) CrearPlanCanje(context.Context, dto.CrearPlanCanjeRequest) (*dto.PlanCanjeResponse, error) {
	s.canje++
	if s.canje > 1 {
		return nil, apierror.NewStoreError(apierror.CodeDuplicado, "ya existe")
	}
	return &dto.PlanCanjeResponse{}, nil
}

func TestSeedRules_SkipsDuplicates(t *testing.T) {
	svc := &seedReglas{}
	creados, omitidos, err := seedRules(context.Background(), svc)
	require.NoError(t, err)
	assert.Equal(t, 2, creados)
	assert.Equal(t, len(demoPricing)+len(demoPlanCanje)-2, omitidos)
}

func TestSeedRules_StopsOnStoreFailure(t *testing.T) {
	svc := &seedReglas{fail: errors.New("connection reset")}
	_, _, err := seedRules(context.Background(), svc)
	require.Error(t, err)
	assert.Equal(t, 1, svc.pricing)
	assert.Equal(t, 0, svc.canje)
}
