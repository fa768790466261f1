package domain

// Catalogo fijo de mensajes visibles al cliente. Los handlers solo responden
// con estas cadenas; el detalle interno de cada fallo queda en los logs.
const (
	MsgInternalServerError   = "Internal Server Error"
	MsgBotDetected           = "Automation bot detected, please stop immediately"
	MsgUserNameNotAvailable  = "User Name not available"
	MsgInvalidCredentials    = "Invalid User Name and Password"
	MsgRegisterFirst         = "Kindly register first"
	MsgInvalidToken          = "Invalid Token"
	MsgNotGoogleVerified     = "Not google verified user"
	MsgLoginSuccess          = "Login Success"
	MsgEmailSent             = "Email sent to the provided email"
	MsgManyOTPRequests       = "Multiple OTP Request, please try after some time"
	MsgRequestOTPFirst       = "Please Request OTP First"
	MsgOTPExpiredOrInvalid   = "OTP Expired or Invalid"
	MsgUserNotFound          = "User not found"
	MsgUserProfileUpdated    = "User profile is successfully updated"
	MsgUserRegistered        = "User is successfully registered"
	MsgTokenExpired          = "Token has expired."
	MsgTokenInvalid          = "Invalid token."
	MsgMissingTokens         = "Missing or invalid tokens."
	MsgMissingUserInfo       = "Missing required user information (user_id or user_type)."
	MsgUserIDMismatch        = "User ID mismatch."
	MsgUserTypeMismatch      = "User type mismatch."
	MsgUserTypeNoAccess      = "User type does not have access to this resource"
	MsgOTPEmailSubject       = "OTP - Sri Ayyappa Swamy Seva Sannidhi"
)
