// Package pcpartpicker_automation publishes a set of products as a
// PCPartPicker part list by driving a headless browser.
package pcpartpicker_automation

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/playwright-community/playwright-go"

	"github.com/Aquilabot/SmartPC-API/internal/utils"
)

var (
	ErrInvalidRegion = errors.New("invalid region")
	ErrNoParts       = errors.New("no PCPartPicker product links to export")
	ErrNoListURL     = errors.New("part list URL not found on page")
)

const (
	errorInitializingPlaywright = "could not start Playwright: %w"
	errorLaunchingBrowser       = "could not launch browser: %w"
	errorCreatingPage           = "could not create page: %w"
	errorNavigatingURL          = "could not navigate to %s: %w"
	logInitPlaywright           = "Initializing Playwright"
	logErrorCookies             = "Error handling cookies, but we continue: %v"
	logCleanupPlaywright        = "Cleaning up Playwright"
	logErrorCloseBrowser        = "Could not close browser: %v"
	logErrorStopPlaywright      = "Could not stop Playwright: %v"
)

// ProductLinks keeps the PCPartPicker product pages among links, once each
// and in order.
func ProductLinks(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))
	for _, link := range links {
		if !utils.MatchProductURL(link) {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		out = append(out, link)
	}
	return out
}

// ExportPartList adds every product page in partLinks to a new part list on
// the regional PCPartPicker site and returns the list's share URL.
func ExportPartList(region string, partLinks []string) (string, error) {
	prefixURL := utils.BuildPrefixURL(region)
	if !utils.MatchPCPPURL(prefixURL) {
		return "", ErrInvalidRegion
	}
	links := ProductLinks(partLinks)
	if len(links) == 0 {
		return "", ErrNoParts
	}

	pw, browser, page, err := initializePlaywright()
	if err != nil {
		return "", err
	}
	defer cleanup(pw, browser)

	if err := navigateTo(page, prefixURL); err != nil {
		return "", err
	}

	if err := handleCookies(page); err != nil {
		log.Warnf(logErrorCookies, err)
	}

	if err := addPartsList(prefixURL, page, links); err != nil {
		return "", err
	}

	value, err := handleTextbox(page)
	if err != nil {
		return "", err
	}
	return listURL(value)
}

// listURL picks the part list link out of the share textbox contents.
func listURL(text string) (string, error) {
	urls := utils.ExtractPartListURLs(text)
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoListURL, text)
	}
	return urls[0], nil
}

func initializePlaywright() (*playwright.Playwright, playwright.Browser, playwright.Page, error) {
	log.Info(logInitPlaywright)
	pw, err := playwright.Run()
	if err != nil {
		return nil, nil, nil, fmt.Errorf(errorInitializingPlaywright, err)
	}
	browser, err := pw.Chromium.Launch()
	if err != nil {
		_ = pw.Stop()
		return nil, nil, nil, fmt.Errorf(errorLaunchingBrowser, err)
	}
	page, err := browser.NewPage()
	if err != nil {
		cleanup(pw, browser)
		return nil, nil, nil, fmt.Errorf(errorCreatingPage, err)
	}
	return pw, browser, page, nil
}

func navigateTo(page playwright.Page, url string) error {
	if _, err := page.Goto(url); err != nil {
		return fmt.Errorf(errorNavigatingURL, url, err)
	}
	return nil
}

func handleCookies(page playwright.Page) error {
	return page.GetByLabel("allow cookies").Click()
}

func addPart(prefixURL string, page playwright.Page, url string) error {
	if err := navigateTo(page, url); err != nil {
		return err
	}
	options := playwright.PageGetByRoleOptions{Name: "Add to Part List"}
	if err := page.GetByRole("link", options).Click(); err != nil {
		return fmt.Errorf("could not click 'Add to Part List': %w", err)
	}

	if err := page.WaitForURL(prefixURL + "list/"); err != nil {
		return fmt.Errorf("error waiting for redirection to the list: %w", err)
	}
	log.Infof("Added %s to Part List", url)
	return nil
}

func addPartsList(prefixURL string, page playwright.Page, links []string) error {
	for _, link := range links {
		if err := addPart(prefixURL, page, link); err != nil {
			return fmt.Errorf("error adding part from link %s: %w", link, err)
		}
	}
	return nil
}

func handleTextbox(page playwright.Page) (string, error) {
	textboxLocator := page.GetByRole("textbox")
	if err := textboxLocator.WaitFor(playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateAttached}); err != nil {
		return "", err
	}

	if err := textboxLocator.WaitFor(playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateVisible}); err != nil {
		return "", fmt.Errorf("could not wait for the textbox to be visible: %w", err)
	}

	return textboxLocator.InputValue()
}

func cleanup(pw *playwright.Playwright, browser playwright.Browser) {
	log.Info(logCleanupPlaywright)
	if err := browser.Close(); err != nil {
		log.Errorf(logErrorCloseBrowser, err)
	}
	if err := pw.Stop(); err != nil {
		log.Errorf(logErrorStopPlaywright, err)
	}
}
