package seo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
)

const schemaContext = "https://schema.org"

// Author describes an article author.
type Author struct {
	Name     string
	Email    string
	Twitter  string
	URL      string
	JobTitle string
	Bio      string
	Image    string
	SameAs   []string
}

type Person struct {
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	URL         string   `json:"url,omitempty"`
	Email       string   `json:"email,omitempty"`
	Image       string   `json:"image,omitempty"`
	Description string   `json:"description,omitempty"`
	JobTitle    string   `json:"jobTitle,omitempty"`
	SameAs      []string `json:"sameAs,omitempty"`
}

type ContactPoint struct {
	Type        string `json:"@type"`
	ContactType string `json:"contactType"`
	Email       string `json:"email,omitempty"`
}

type Organization struct {
	Context      string       `json:"@context,omitempty"`
	Type         string       `json:"@type"`
	Name         string       `json:"name"`
	URL          string       `json:"url"`
	Logo         string       `json:"logo"`
	Description  string       `json:"description,omitempty"`
	SameAs       []string     `json:"sameAs,omitempty"`
	ContactPoint ContactPoint `json:"contactPoint"`
}

type ImageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type Article struct {
	Context       string       `json:"@context"`
	Type          string       `json:"@type"`
	Headline      string       `json:"headline"`
	DatePublished string       `json:"datePublished"`
	DateModified  string       `json:"dateModified"`
	Author        []Person     `json:"author"`
	Publisher     Organization `json:"publisher"`
	Description   string       `json:"description,omitempty"`
	Image         *ImageObject `json:"image,omitempty"`
}

type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

type FAQPage struct {
	Context    string     `json:"@context"`
	Type       string     `json:"@type"`
	MainEntity []Question `json:"mainEntity"`
}

// FAQ is one question/answer pair.
type FAQ struct {
	Question string
	Answer   string
}

type Brand struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type Offer struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
	Availability  string `json:"availability"`
}

type AggregateRating struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	ReviewCount int     `json:"reviewCount"`
}

type Product struct {
	Context         string           `json:"@context"`
	Type            string           `json:"@type"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Image           string           `json:"image,omitempty"`
	Brand           *Brand           `json:"brand,omitempty"`
	Offers          Offer            `json:"offers"`
	AggregateRating *AggregateRating `json:"aggregateRating,omitempty"`
}

// ProductInput describes a product for BuildProduct.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Currency    string
	Rating      float64
	ReviewCount int
	Image       string
	Brand       string
}

type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type BreadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// Crumb is one breadcrumb link; URL may be relative to the site URL.
type Crumb struct {
	Name string
	URL  string
}

// twitterURL turns a handle into a profile URL; URLs pass through.
func twitterURL(handle string) string {
	if strings.HasPrefix(handle, "http") {
		return handle
	}
	return "https://twitter.com/" + strings.TrimPrefix(handle, "@")
}

// BuildPerson converts an Author to a schema.org Person.
func BuildPerson(a Author) Person {
	p := Person{
		Type:        "Person",
		Name:        a.Name,
		URL:         a.URL,
		Email:       a.Email,
		Image:       a.Image,
		Description: a.Bio,
		JobTitle:    a.JobTitle,
	}
	sameAs := append([]string(nil), a.SameAs...)
	if a.Twitter != "" && !strings.HasPrefix(a.Twitter, "http") {
		sameAs = append(sameAs, twitterURL(a.Twitter))
	}
	if len(sameAs) > 0 {
		p.SameAs = sameAs
	}
	return p
}

// BuildOrganization describes the site owner.
func BuildOrganization(p siteconfig.Profile) Organization {
	var sameAs []string
	social := p.SEO.Social
	if social.Twitter != "" {
		sameAs = append(sameAs, twitterURL(social.Twitter))
	}
	for _, s := range []string{social.GitHub, social.LinkedIn} {
		if s != "" {
			sameAs = append(sameAs, s)
		}
	}

	return Organization{
		Type:        "Organization",
		Name:        p.ShortName,
		URL:         p.URL,
		Logo:        Absolute(p.URL, p.Logo),
		Description: p.Description,
		SameAs:      sameAs,
		ContactPoint: ContactPoint{
			Type:        "ContactPoint",
			ContactType: "Customer Support",
			Email:       p.MailSupport,
		},
	}
}

// BuildArticle describes an article. dateModified defaults to datePublished.
func BuildArticle(p siteconfig.Profile, headline, datePublished, dateModified string, authors []Author, image, description string) Article {
	if dateModified == "" {
		dateModified = datePublished
	}
	people := make([]Person, 0, len(authors))
	for _, a := range authors {
		people = append(people, BuildPerson(a))
	}

	art := Article{
		Context:       schemaContext,
		Type:          "Article",
		Headline:      headline,
		DatePublished: datePublished,
		DateModified:  dateModified,
		Author:        people,
		Publisher:     BuildOrganization(p),
		Description:   description,
	}
	if image != "" {
		art.Image = &ImageObject{Type: "ImageObject", URL: image}
	}
	return art
}

// BuildFAQ describes a list of questions and answers.
func BuildFAQ(faqs []FAQ) FAQPage {
	qs := make([]Question, 0, len(faqs))
	for _, f := range faqs {
		qs = append(qs, Question{
			Type:           "Question",
			Name:           f.Question,
			AcceptedAnswer: Answer{Type: "Answer", Text: f.Answer},
		})
	}
	return FAQPage{Context: schemaContext, Type: "FAQPage", MainEntity: qs}
}

// BuildProduct describes a product offer. The rating is only emitted when
// both a rating and a review count are present.
func BuildProduct(in ProductInput) Product {
	prod := Product{
		Context:     schemaContext,
		Type:        "Product",
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Offers: Offer{
			Type:          "Offer",
			Price:         fmt.Sprintf("%.2f", in.Price),
			PriceCurrency: in.Currency,
			Availability:  "https://schema.org/InStock",
		},
	}
	if in.Brand != "" {
		prod.Brand = &Brand{Type: "Brand", Name: in.Brand}
	}
	if in.Rating > 0 && in.ReviewCount > 0 {
		prod.AggregateRating = &AggregateRating{
			Type:        "AggregateRating",
			RatingValue: in.Rating,
			ReviewCount: in.ReviewCount,
		}
	}
	return prod
}

// BuildBreadcrumbs numbers crumbs from 1 and resolves their URLs against
// the site URL.
func BuildBreadcrumbs(p siteconfig.Profile, crumbs []Crumb) BreadcrumbList {
	items := make([]ListItem, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     c.Name,
			Item:     Absolute(p.URL, c.URL),
		})
	}
	return BreadcrumbList{Context: schemaContext, Type: "BreadcrumbList", ItemListElement: items}
}

// WithContext returns the organization as a top-level JSON-LD document.
func (o Organization) WithContext() Organization {
	o.Context = schemaContext
	return o
}

// ScriptTag renders v as a <script type="application/ld+json"> element.
// encoding/json escapes <, > and & so the payload cannot close the tag.
func ScriptTag(v any) (template.HTML, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal json-ld: %w", err)
	}
	return template.HTML(`<script type="application/ld+json">` + string(b) + `</script>`), nil
}
