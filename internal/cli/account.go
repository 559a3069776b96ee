package cli

import (
	"context"
	"os"
	"path/filepath"
)

func (a *App) Profile(ctx context.Context) error {
	p, err := a.cache.RefreshProfile(ctx)
	if err != nil {
		// Stale-but-available: fall back to whatever is cached.
		if cached, ok := a.cache.Profile(); ok {
			printlnFn("(showing cached profile, refresh failed)")
			p = cached
		} else {
			a.printErr(err)
			return err
		}
	}

	printlnFn("Email:     ", p.Email)
	printlnFn("First name:", p.FirstName)
	printlnFn("Last name: ", p.LastName)
	if p.AvatarURL != "" {
		printlnFn("Avatar:    ", p.AvatarURL)
	}
	return nil
}

func (a *App) EditProfile(ctx context.Context) error {
	first, err := GetSimpleText(a.reader, "Enter first name", os.Stdout)
	if err != nil {
		return err
	}
	last, err := GetSimpleText(a.reader, "Enter last name", os.Stdout)
	if err != nil {
		return err
	}

	p, err := a.account.UpdateProfile(ctx, first, last)
	if err != nil {
		a.printErr(err)
		return err
	}
	printlnFn("Profile updated:", p.FirstName, p.LastName)
	return nil
}

func (a *App) UploadAvatar(ctx context.Context) error {
	path, err := GetSimpleText(a.reader, "Enter image file path (max 100 KB)", os.Stdout)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Cannot read file:", err.Error())
		return err
	}

	p, err := a.account.UploadAvatar(ctx, filepath.Base(path), data)
	if err != nil {
		a.printErr(err)
		return err
	}
	printlnFn("Avatar updated:", p.AvatarURL)
	return nil
}
