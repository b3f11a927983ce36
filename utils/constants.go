package utils

import "time"

// SessionKeyPrefix is the prefix used for Redis token store keys.
const SessionKeyPrefix = "portal:session:"

// NoticeKeyPrefix is the prefix used for Redis notice inbox keys.
const NoticeKeyPrefix = "portal:notices:"

// NoticeTTL bounds how long undrained notices survive.
const NoticeTTL = 10 * time.Minute

// SessionCookie names the opaque browser session cookie.
const SessionCookie = "wp_sid"
