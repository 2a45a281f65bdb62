package pubhouse

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubhouse/blog"
)

func (a *App) handleSignUpForm(c echo.Context) error {
	if !ActorFrom(c).Anonymous() {
		return c.Redirect(http.StatusSeeOther, "/dashboard/")
	}
	return Render(c, a.Views.SignUp(a.page(c, "Sign Up", "Create an account on "+a.Config.Name)))
}

func (a *App) handleSignUp(c echo.Context) error {
	u, err := a.Blog.SignUp(c.Request().Context(), blog.SignUpInput{
		Username:  c.FormValue("username"),
		Email:     c.FormValue("email"),
		Password1: c.FormValue("password1"),
		Password2: c.FormValue("password2"),
	})
	if errors.Is(err, blog.ErrValidation) {
		return redirectWithFlash(c, "/signup/", FlashError, blog.Messages(err)...)
	}
	if err != nil {
		return err
	}
	if err := setUserSession(c, u.ID, u.Username); err != nil {
		return err
	}
	return redirectWithFlash(c, "/dashboard/", FlashSuccess, "Account created successfully.")
}

func (a *App) handleLoginForm(c echo.Context) error {
	if !ActorFrom(c).Anonymous() {
		return c.Redirect(http.StatusSeeOther, "/dashboard/")
	}
	return Render(c, a.Views.Login(a.page(c, "Log In", "")))
}

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	u, err := a.Blog.Authenticate(c.Request().Context(), c.FormValue("username"), c.FormValue("password"))
	if errors.Is(err, blog.ErrAuthorization) {
		a.loginLimiter.Record(ip)
		a.Logger.WarnContext(c.Request().Context(), "failed login", "ip", ip)
		return redirectWithFlash(c, "/login/", FlashError, blog.Messages(err)...)
	}
	if err != nil {
		return err
	}
	if err := setUserSession(c, u.ID, u.Username); err != nil {
		return err
	}
	return redirectWithFlash(c, "/dashboard/", FlashSuccess, "Logged in successfully.")
}

func (a *App) handleLogout(c echo.Context) error {
	if err := clearUserSession(c); err != nil {
		return err
	}
	return redirectWithFlash(c, "/login/", FlashInfo, "You have been logged out.")
}

func (a *App) handleProfileForm(c echo.Context) error {
	u, err := a.Blog.User(c.Request().Context(), ActorFrom(c))
	if err != nil {
		return err
	}
	return Render(c, a.Views.Profile(ProfilePage{
		Page:      a.page(c, "Edit Profile", ""),
		User:      *u,
		AvatarURL: blog.AvatarURL(*u),
	}))
}

func (a *App) handleProfile(c echo.Context) error {
	img, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	u, err := a.Blog.UpdateProfile(c.Request().Context(), ActorFrom(c), blog.ProfileUpdate{
		Username:  c.FormValue("username"),
		Email:     c.FormValue("email"),
		Password1: c.FormValue("password1"),
		Password2: c.FormValue("password2"),
		Image:     img,
	})
	if errors.Is(err, blog.ErrValidation) {
		return redirectWithFlash(c, "/edit_profile/", FlashError, blog.Messages(err)...)
	}
	if err != nil {
		return err
	}
	if err := setUserSession(c, u.ID, u.Username); err != nil {
		return err
	}
	return redirectWithFlash(c, "/dashboard/", FlashSuccess, "Profile updated successfully!")
}
