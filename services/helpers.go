package services

import (
	"github.com/paddleup/pickleplay/models"
	"github.com/paddleup/pickleplay/storage"
)

// populateWaitlistUserDetails resolves stored avatar keys to public URLs
// on the joined user rows of a waitlist listing.
func populateWaitlistUserDetails(entries []*models.WaitlistEntry, uploader storage.FileUploader) {
	if uploader == nil {
		return
	}
	for _, entry := range entries {
		if entry == nil || entry.User == nil {
			continue
		}
		user := entry.User
		if user.LogoKey != nil && *user.LogoKey != "" {
			url := uploader.GetPublicURL(*user.LogoKey)
			if url != "" {
				user.LogoURL = &url
			}
		}
	}
}
