package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phazelsound/client/internal/service"
	"github.com/phazelsound/client/internal/validation"
)

func newRegisterCommand(a *app) *cobra.Command {
	var form validation.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and receive a verification code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.svc.Register(a.context(cmd), form)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "full name")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.PhoneNumber, "phone", "", "phone number (optional)")
	cmd.Flags().StringVar(&form.Password, "password", "", "password")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "password again")
	return cmd
}

func newVerifyCommand(a *app) *cobra.Command {
	var email, code string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Activate an account with the emailed code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := service.OpenOTPScreen(a.context(cmd), email, a.cfg.OTP.TTL)
			defer screen.Close()
			screen.Input.Change(0, code)

			msg, err := a.svc.VerifyOTP(a.context(cmd), screen)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&code, "code", "", "6 digit code")
	return cmd
}

func newResendCommand(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "resend",
		Short: "Send a new verification code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 이전 발송 시각을 모르므로 카운트다운은 만료 상태로 시작
			screen := service.OpenExpiredOTPScreen(a.context(cmd), email)
			defer screen.Close()

			msg, err := a.svc.ResendOTP(a.context(cmd), screen)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func newLoginCommand(a *app) *cobra.Command {
	var form validation.LoginForm

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email or phone number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.svc.Login(a.context(cmd), form)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Login successfully.")
			if sess.User != nil {
				fmt.Fprintf(out, "Signed in as %s\n", describeUser(*sess.User))
			}
			fmt.Fprintf(out, "route: %s\n", service.Route(*sess))
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Identifier, "identifier", "", "email or phone number")
	cmd.Flags().StringVar(&form.Password, "password", "", "password")
	return cmd
}

func newForgotPasswordCommand(a *app) *cobra.Command {
	var form validation.ForgotPasswordForm

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Send a password reset code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.svc.ForgotPassword(a.context(cmd), form)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	return cmd
}

func newResetPasswordCommand(a *app) *cobra.Command {
	var email, code, newPassword, confirmPassword string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with the emailed code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := service.OpenOTPScreen(a.context(cmd), email, a.cfg.OTP.TTL)
			defer screen.Close()
			screen.Input.Change(0, code)

			msg, err := a.svc.ResetPassword(a.context(cmd), screen, newPassword, confirmPassword)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&code, "code", "", "6 digit code")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "new password")
	cmd.Flags().StringVar(&confirmPassword, "confirm-password", "", "new password again")
	return cmd
}
