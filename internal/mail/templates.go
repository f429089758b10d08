package mail

import "strings"

// The OTP templates carry two placeholders, {{otp}} and {{email}}, kept in the
// markup itself so designers can edit the HTML without touching Go code.

const emailVerifyTemplate = `<!DOCTYPE html>
<html>
  <body style="margin:0;padding:0;background:#f4f4f7;font-family:Arial,Helvetica,sans-serif;">
    <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
      <tr><td align="center" style="padding:32px 16px;">
        <table role="presentation" width="480" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;padding:32px;">
          <tr><td style="font-size:20px;font-weight:bold;color:#333333;padding-bottom:16px;">Verify your email</td></tr>
          <tr><td style="font-size:14px;color:#555555;padding-bottom:24px;">
            You are one step away from verifying the account for <strong>{{email}}</strong>.
            Use the code below to complete verification.
          </td></tr>
          <tr><td align="center" style="padding-bottom:24px;">
            <span style="display:inline-block;font-size:28px;letter-spacing:8px;font-weight:bold;color:#2f67f6;background:#eef3ff;border-radius:6px;padding:12px 24px;">{{otp}}</span>
          </td></tr>
          <tr><td style="font-size:12px;color:#999999;">This code expires in 24 hours. If you did not request it, you can ignore this mail.</td></tr>
        </table>
      </td></tr>
    </table>
  </body>
</html>`

const passwordResetTemplate = `<!DOCTYPE html>
<html>
  <body style="margin:0;padding:0;background:#f4f4f7;font-family:Arial,Helvetica,sans-serif;">
    <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
      <tr><td align="center" style="padding:32px 16px;">
        <table role="presentation" width="480" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;padding:32px;">
          <tr><td style="font-size:20px;font-weight:bold;color:#333333;padding-bottom:16px;">Reset your password</td></tr>
          <tr><td style="font-size:14px;color:#555555;padding-bottom:24px;">
            We received a password reset request for <strong>{{email}}</strong>.
            Use the code below to choose a new password.
          </td></tr>
          <tr><td align="center" style="padding-bottom:24px;">
            <span style="display:inline-block;font-size:28px;letter-spacing:8px;font-weight:bold;color:#d23f31;background:#fdeeec;border-radius:6px;padding:12px 24px;">{{otp}}</span>
          </td></tr>
          <tr><td style="font-size:12px;color:#999999;">This code expires in 15 minutes. If you did not request it, your password is unchanged.</td></tr>
        </table>
      </td></tr>
    </table>
  </body>
</html>`

func RenderEmailVerify(otp, email string) string {
	return renderOTPTemplate(emailVerifyTemplate, otp, email)
}

func RenderPasswordReset(otp, email string) string {
	return renderOTPTemplate(passwordResetTemplate, otp, email)
}

func renderOTPTemplate(tpl, otp, email string) string {
	return strings.NewReplacer("{{otp}}", otp, "{{email}}", email).Replace(tpl)
}
