package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finsuite/wallet_ledger_app/internal/core/domain"
	portssvc "github.com/finsuite/wallet_ledger_app/internal/core/ports/services"
	"github.com/finsuite/wallet_ledger_app/internal/core/services"
	"github.com/finsuite/wallet_ledger_app/internal/dto"
	"github.com/finsuite/wallet_ledger_app/internal/handlers"
)

// --- Mock WalletService ---
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) CreateWallet(ctx context.Context, req dto.CreateWalletRequest) (*domain.Wallet, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletService) FundWallet(ctx context.Context, req dto.FundWalletRequest) (*dto.FundWalletResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FundWalletResult), args.Error(1)
}

func (m *MockWalletService) TransferFunds(ctx context.Context, req dto.TransferFundsRequest) (*dto.TransferFundsResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransferFundsResult), args.Error(1)
}

func (m *MockWalletService) GetWalletDetails(ctx context.Context, walletID string) (*dto.WalletDetailsResult, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WalletDetailsResult), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.WalletSvcFacade = (*MockWalletService)(nil)

// --- Test Suite ---
type WalletHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockWalletService *MockWalletService
}

func (suite *WalletHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockWalletService = new(MockWalletService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterWalletRoutes(v1, suite.mockWalletService)
}

func (suite *WalletHandlerTestSuite) postJSON(url string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Create Wallet ---

func (suite *WalletHandlerTestSuite) TestCreateWallet_Success() {
	wallet, err := domain.NewWallet("USD")
	suite.Require().NoError(err)

	suite.mockWalletService.On("CreateWallet", mock.Anything, dto.CreateWalletRequest{CurrencyCode: "USD"}).
		Return(wallet, nil).Once()

	w := suite.postJSON("/api/v1/wallets", gin.H{"currencyCode": "USD"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.WalletResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(wallet.ID.Value, resp.WalletID)
	suite.Equal("USD", resp.CurrencyCode)
	suite.True(resp.Balance.IsZero())
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestCreateWallet_InvalidCurrencyCode() {
	for _, code := range []string{"usd", "US", "USDT", "12A"} {
		w := suite.postJSON("/api/v1/wallets", gin.H{"currencyCode": code})
		suite.Equal(http.StatusBadRequest, w.Code, "currency code %q must be rejected", code)
	}
	suite.mockWalletService.AssertNotCalled(suite.T(), "CreateWallet", mock.Anything, mock.Anything)
}

func (suite *WalletHandlerTestSuite) TestCreateWallet_MissingBody() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/wallets", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Fund Wallet ---

func (suite *WalletHandlerTestSuite) TestFundWallet_Success() {
	walletID := uuid.NewString()
	result := &dto.FundWalletResult{
		TransactionID: uuid.NewString(),
		WalletID:      walletID,
		Amount:        decimal.NewFromInt(100),
		BalanceAfter:  decimal.NewFromInt(100),
		Reference:     "ref-1",
		CreatedAt:     time.Now().UTC(),
	}

	suite.mockWalletService.On("FundWallet", mock.Anything, mock.MatchedBy(func(req dto.FundWalletRequest) bool {
		return req.WalletID == walletID && req.Amount.Equal(decimal.NewFromInt(100))
	})).Return(result, nil).Once()

	w := suite.postJSON("/api/v1/wallets/fund", gin.H{
		"walletID":  walletID,
		"amount":    100,
		"reference": "ref-1",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.FundWalletResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(result.TransactionID, resp.TransactionID)
	suite.True(resp.BalanceAfter.Equal(decimal.NewFromInt(100)))
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestFundWallet_ErrorMapping() {
	testCases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"wallet not found", services.ErrWalletNotFound, http.StatusNotFound},
		{"duplicate reference", services.ErrDuplicateReference, http.StatusConflict},
		{"unexpected", fmt.Errorf("store unavailable"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.mockWalletService.On("FundWallet", mock.Anything, mock.AnythingOfType("dto.FundWalletRequest")).
				Return(nil, tc.serviceErr).Once()

			w := suite.postJSON("/api/v1/wallets/fund", gin.H{
				"walletID": uuid.NewString(),
				"amount":   50,
			})

			suite.Equal(tc.wantStatus, w.Code)
		})
	}
}

func (suite *WalletHandlerTestSuite) TestFundWallet_MissingWalletID() {
	w := suite.postJSON("/api/v1/wallets/fund", gin.H{"amount": 50})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockWalletService.AssertNotCalled(suite.T(), "FundWallet", mock.Anything, mock.Anything)
}

// --- Transfer Funds ---

func (suite *WalletHandlerTestSuite) TestTransferFunds_Success() {
	fromID := uuid.NewString()
	toID := uuid.NewString()
	result := &dto.TransferFundsResult{
		DebitTransactionID:  uuid.NewString(),
		CreditTransactionID: uuid.NewString(),
		FromWalletID:        fromID,
		ToWalletID:          toID,
		Amount:              decimal.NewFromInt(75),
		FromBalanceAfter:    decimal.NewFromInt(25),
		ToBalanceAfter:      decimal.NewFromInt(75),
		CreatedAt:           time.Now().UTC(),
	}

	suite.mockWalletService.On("TransferFunds", mock.Anything, mock.MatchedBy(func(req dto.TransferFundsRequest) bool {
		return req.FromWalletID == fromID && req.ToWalletID == toID && req.Amount.Equal(decimal.NewFromInt(75))
	})).Return(result, nil).Once()

	w := suite.postJSON("/api/v1/wallets/transfer", gin.H{
		"fromWalletID": fromID,
		"toWalletID":   toID,
		"amount":       75,
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TransferFundsResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(result.DebitTransactionID, resp.DebitTransactionID)
	suite.Equal(result.CreditTransactionID, resp.CreditTransactionID)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestTransferFunds_ErrorMapping() {
	testCases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"currency mismatch", domain.ErrCurrencyMismatch, http.StatusBadRequest},
		{"same wallet", services.ErrSameWalletTransfer, http.StatusBadRequest},
		{"wallet not found", services.ErrWalletNotFound, http.StatusNotFound},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"unexpected", fmt.Errorf("store unavailable"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.mockWalletService.On("TransferFunds", mock.Anything, mock.AnythingOfType("dto.TransferFundsRequest")).
				Return(nil, tc.serviceErr).Once()

			w := suite.postJSON("/api/v1/wallets/transfer", gin.H{
				"fromWalletID": uuid.NewString(),
				"toWalletID":   uuid.NewString(),
				"amount":       10,
			})

			suite.Equal(tc.wantStatus, w.Code)
		})
	}
}

// --- Get Wallet ---

func (suite *WalletHandlerTestSuite) TestGetWallet_Success() {
	walletID := uuid.NewString()
	details := &dto.WalletDetailsResult{
		WalletID:     walletID,
		CurrencyCode: "USD",
		Balance:      decimal.NewFromInt(150),
		CreatedAt:    time.Now().UTC(),
		Transactions: []dto.TransactionResponse{
			{
				TransactionID: uuid.NewString(),
				Type:          string(domain.Credit),
				Amount:        decimal.NewFromInt(150),
				CurrencyCode:  "USD",
				BalanceAfter:  decimal.NewFromInt(150),
				CreatedAt:     time.Now().UTC(),
			},
		},
	}

	suite.mockWalletService.On("GetWalletDetails", mock.Anything, walletID).Return(details, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/wallets/"+walletID, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.WalletDetailsResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(walletID, resp.WalletID)
	suite.True(resp.Balance.Equal(decimal.NewFromInt(150)))
	suite.Require().Len(resp.Transactions, 1)
	suite.Equal(string(domain.Credit), resp.Transactions[0].Type)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestGetWallet_NotFound() {
	walletID := uuid.NewString()

	suite.mockWalletService.On("GetWalletDetails", mock.Anything, walletID).
		Return(nil, services.ErrWalletNotFound).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/wallets/"+walletID, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestWalletHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(WalletHandlerTestSuite))
}
