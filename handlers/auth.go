package handlers

import (
	"net/http"

	"gameon/account"
	"gameon/auth"
	"gameon/models"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	auth.Session
	User *models.User `json:"user"`
}

func (h *Handler) Register(c *gin.Context) {
	var req account.SignupInput
	if !bindJSON(c, "Register", &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.Registrar.Register(ctx, req)
	if err != nil {
		fail(c, "Register", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created successfully",
		"user":    user,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, "Login", &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.Authenticator.Resolve(ctx, auth.CredentialsIdentity{Email: req.Email, Password: req.Password})
	if err != nil {
		fail(c, "Login", err)
		return
	}
	h.issue(c, "Login", user)
}

// issue writes a fresh session for user.
func (h *Handler) issue(c *gin.Context, tag string, user *models.User) {
	sess, err := h.Sessions.Issue(user)
	if err != nil {
		fail(c, tag, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Session: sess, User: user})
}

// RefreshSession reissues the caller's token from the stored user, picking
// up role and onboarding changes.
func (h *Handler) RefreshSession(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, sess, err := h.Sessions.Refresh(ctx, h.Users, claims)
	if err != nil {
		fail(c, "Session", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Session: sess, User: user})
}

type otpSendRequest struct {
	Email string `json:"email"`
}

type otpVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *Handler) SendOTP(c *gin.Context) {
	var req otpSendRequest
	if !bindJSON(c, "OTP", &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.OTP.Send(ctx, req.Email); err != nil {
		fail(c, "OTP", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req otpVerifyRequest
	if !bindJSON(c, "OTP", &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.OTP.Verify(ctx, req.Email, req.OTP); err != nil {
		fail(c, "OTP", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}
