package schema

// fieldTypes is the Core Reporting API v3 dimension and metric reference,
// keyed by field name without the "ga:" prefix. INTEGER fields are Integer;
// FLOAT, PERCENT and CURRENCY fields are Float; TIME fields are Duration and
// keep their source text. Fields not listed here are String.
var fieldTypes = map[string]SemanticType{
	// Date.
	"date": Date,

	// User and session counts.
	"users": Integer, "newUsers": Integer, "1dayUsers": Integer, "7dayUsers": Integer,
	"14dayUsers": Integer, "28dayUsers": Integer, "30dayUsers": Integer, "sessions": Integer,
	"bounces": Integer, "hits": Integer, "organicSearches": Integer, "uniqueDimensionCombinations": Integer,

	// Traffic sources and advertising.
	"impressions": Integer, "adClicks": Integer,
	"adCost": Float, "CPM": Float, "CPC": Float, "CTR": Float,
	"costPerTransaction": Float, "costPerGoalConversion": Float, "costPerConversion": Float, "RPC": Float,
	"ROAS": Float,

	// Goal conversions.
	"goalStartsAll": Integer, "goalCompletionsAll": Integer, "goalAbandonsAll": Integer,
	"goalValueAll": Float, "goalValuePerSession": Float, "goalConversionRateAll": Float, "goalAbandonRateAll": Float,
	"goal1Starts": Integer, "goal1Completions": Integer, "goal1Abandons": Integer, "goal2Starts": Integer,
	"goal2Completions": Integer, "goal2Abandons": Integer, "goal3Starts": Integer, "goal3Completions": Integer,
	"goal3Abandons": Integer, "goal4Starts": Integer, "goal4Completions": Integer, "goal4Abandons": Integer,
	"goal5Starts": Integer, "goal5Completions": Integer, "goal5Abandons": Integer, "goal6Starts": Integer,
	"goal6Completions": Integer, "goal6Abandons": Integer, "goal7Starts": Integer, "goal7Completions": Integer,
	"goal7Abandons": Integer, "goal8Starts": Integer, "goal8Completions": Integer, "goal8Abandons": Integer,
	"goal9Starts": Integer, "goal9Completions": Integer, "goal9Abandons": Integer, "goal10Starts": Integer,
	"goal10Completions": Integer, "goal10Abandons": Integer, "goal11Starts": Integer, "goal11Completions": Integer,
	"goal11Abandons": Integer, "goal12Starts": Integer, "goal12Completions": Integer, "goal12Abandons": Integer,
	"goal13Starts": Integer, "goal13Completions": Integer, "goal13Abandons": Integer, "goal14Starts": Integer,
	"goal14Completions": Integer, "goal14Abandons": Integer, "goal15Starts": Integer, "goal15Completions": Integer,
	"goal15Abandons": Integer, "goal16Starts": Integer, "goal16Completions": Integer, "goal16Abandons": Integer,
	"goal17Starts": Integer, "goal17Completions": Integer, "goal17Abandons": Integer, "goal18Starts": Integer,
	"goal18Completions": Integer, "goal18Abandons": Integer, "goal19Starts": Integer, "goal19Completions": Integer,
	"goal19Abandons": Integer, "goal20Starts": Integer, "goal20Completions": Integer, "goal20Abandons": Integer,
	"goal1Value": Float, "goal1ConversionRate": Float, "goal1AbandonRate": Float, "goal2Value": Float,
	"goal2ConversionRate": Float, "goal2AbandonRate": Float, "goal3Value": Float, "goal3ConversionRate": Float,
	"goal3AbandonRate": Float, "goal4Value": Float, "goal4ConversionRate": Float, "goal4AbandonRate": Float,
	"goal5Value": Float, "goal5ConversionRate": Float, "goal5AbandonRate": Float, "goal6Value": Float,
	"goal6ConversionRate": Float, "goal6AbandonRate": Float, "goal7Value": Float, "goal7ConversionRate": Float,
	"goal7AbandonRate": Float, "goal8Value": Float, "goal8ConversionRate": Float, "goal8AbandonRate": Float,
	"goal9Value": Float, "goal9ConversionRate": Float, "goal9AbandonRate": Float, "goal10Value": Float,
	"goal10ConversionRate": Float, "goal10AbandonRate": Float, "goal11Value": Float, "goal11ConversionRate": Float,
	"goal11AbandonRate": Float, "goal12Value": Float, "goal12ConversionRate": Float, "goal12AbandonRate": Float,
	"goal13Value": Float, "goal13ConversionRate": Float, "goal13AbandonRate": Float, "goal14Value": Float,
	"goal14ConversionRate": Float, "goal14AbandonRate": Float, "goal15Value": Float, "goal15ConversionRate": Float,
	"goal15AbandonRate": Float, "goal16Value": Float, "goal16ConversionRate": Float, "goal16AbandonRate": Float,
	"goal17Value": Float, "goal17ConversionRate": Float, "goal17AbandonRate": Float, "goal18Value": Float,
	"goal18ConversionRate": Float, "goal18AbandonRate": Float, "goal19Value": Float, "goal19ConversionRate": Float,
	"goal19AbandonRate": Float, "goal20Value": Float, "goal20ConversionRate": Float, "goal20AbandonRate": Float,

	// Page tracking.
	"pageviews": Integer, "uniquePageviews": Integer, "entrances": Integer, "exits": Integer,
	"pageValue": Float, "entranceRate": Float, "pageviewsPerSession": Float, "exitRate": Float,

	// Internal search.
	"searchResultViews": Integer, "searchUniques": Integer, "searchSessions": Integer, "searchDepth": Integer,
	"searchRefinements": Integer, "searchExits": Integer, "searchGoalConversionRateAll": Float,
	"avgSearchResultViews": Float, "percentSessionsWithSearch": Float, "avgSearchDepth": Float, "percentSearchRefinements": Float,
	"searchExitRate": Float, "goalValueAllPerSearch": Float,

	// Site speed.
	"pageLoadTime": Integer, "pageLoadSample": Integer, "domainLookupTime": Integer, "pageDownloadTime": Integer,
	"redirectionTime": Integer, "serverConnectionTime": Integer, "serverResponseTime": Integer, "speedMetricsSample": Integer,
	"domInteractiveTime": Integer, "domContentLoadedTime": Integer, "domLatencyMetricsSample": Integer,
	"avgPageLoadTime": Float, "avgDomainLookupTime": Float, "avgPageDownloadTime": Float, "avgRedirectionTime": Float,
	"avgServerConnectionTime": Float, "avgServerResponseTime": Float, "avgDomInteractiveTime": Float, "avgDomContentLoadedTime": Float,

	// App tracking, events, exceptions and user timings.
	"screenviews": Integer, "uniqueScreenviews": Integer, "totalEvents": Integer, "uniqueEvents": Integer,
	"eventValue": Integer, "sessionsWithEvent": Integer, "exceptions": Integer, "fatalExceptions": Integer,
	"userTimingValue": Integer, "userTimingSample": Integer,
	"screenviewsPerSession": Float, "avgEventValue": Float, "eventsPerSessionWithEvent": Float, "exceptionsPerScreenview": Float,
	"fatalExceptionsPerScreenview": Float, "avgUserTimingValue": Float,

	// Users.
	"percentNewSessions": Float, "sessionsPerUser": Float, "bounceRate": Float,

	// Ecommerce.
	"transactions": Integer, "itemQuantity": Integer, "uniquePurchases": Integer, "productDetailViews": Integer,
	"productAddsToCart": Integer, "productRemovesFromCart": Integer, "productCheckouts": Integer, "productListViews": Integer,
	"productListClicks": Integer, "internalPromotionViews": Integer, "internalPromotionClicks": Integer, "quantityAddedToCart": Integer,
	"quantityRemovedFromCart": Integer, "quantityCheckedOut": Integer, "quantityRefunded": Integer, "totalRefunds": Integer,
	"transactionsPerSession": Float, "transactionRevenue": Float, "revenuePerTransaction": Float, "transactionRevenuePerSession": Float,
	"transactionShipping": Float, "transactionTax": Float, "totalValue": Float, "revenuePerItem": Float,
	"itemRevenue": Float, "itemsPerPurchase": Float, "localTransactionRevenue": Float, "localTransactionShipping": Float,
	"localTransactionTax": Float, "localItemRevenue": Float, "buyToDetailRate": Float, "cartToDetailRate": Float,
	"productRevenuePerPurchase": Float, "productRefundAmount": Float, "refundAmount": Float, "localRefundAmount": Float,
	"localProductRefundAmount": Float, "productListCTR": Float, "internalPromotionCTR": Float, "transactionsPerUser": Float,
	"revenuePerUser": Float,

	// Social interactions and AdSense.
	"socialInteractions": Integer, "uniqueSocialInteractions": Integer, "adsenseAdUnitsViewed": Integer, "adsenseAdsViewed": Integer,
	"adsenseAdsClicks": Integer, "adsensePageImpressions": Integer, "adsenseExits": Integer,
	"socialInteractionsPerSession": Float, "adsenseRevenue": Float, "adsenseCTR": Float, "adsenseECPM": Float,
	"adsenseViewableImpressionPercent": Float, "adsenseCoverage": Float,

	// Durations, reported in seconds and kept as text.
	"sessionDuration": Duration, "avgSessionDuration": Duration, "timeOnPage": Duration, "avgTimeOnPage": Duration,
	"searchDuration": Duration, "avgSearchDuration": Duration, "timeOnScreen": Duration, "avgScreenviewDuration": Duration,

	// Dimensions.
	"userType": String, "sessionCount": String, "daysSinceLastSession": String, "userDefinedValue": String,
	"userBucket": String, "sessionDurationBucket": String, "referralPath": String, "fullReferrer": String,
	"campaign": String, "source": String, "medium": String, "sourceMedium": String,
	"keyword": String, "adContent": String, "socialNetwork": String, "hasSocialSourceReferral": String,
	"campaignCode": String, "channelGrouping": String, "adGroup": String, "adSlot": String,
	"adDistributionNetwork": String, "adMatchType": String, "adKeywordMatchType": String, "adMatchedQuery": String,
	"adPlacementDomain": String, "adPlacementUrl": String, "adFormat": String, "adTargetingType": String,
	"adTargetingOption": String, "adDisplayUrl": String, "adDestinationUrl": String, "adwordsCustomerID": String,
	"adwordsCampaignID": String, "adwordsAdGroupID": String, "adwordsCreativeID": String, "adwordsCriteriaID": String,
	"adQueryWordCount": String, "isTrueViewVideoAd": String, "goalCompletionLocation": String, "goalPreviousStep1": String,
	"goalPreviousStep2": String, "goalPreviousStep3": String, "browser": String, "browserVersion": String,
	"operatingSystem": String, "operatingSystemVersion": String, "mobileDeviceBranding": String, "mobileDeviceModel": String,
	"mobileInputSelector": String, "mobileDeviceInfo": String, "mobileDeviceMarketingName": String, "deviceCategory": String,
	"browserSize": String, "dataSource": String, "continent": String, "subContinent": String,
	"country": String, "region": String, "metro": String, "city": String,
	"latitude": String, "longitude": String, "networkDomain": String, "networkLocation": String,
	"cityId": String, "continentId": String, "countryIsoCode": String, "metroId": String,
	"regionId": String, "regionIsoCode": String, "subContinentCode": String, "flashVersion": String,
	"javaEnabled": String, "language": String, "screenColors": String, "sourcePropertyDisplayName": String,
	"sourcePropertyTrackingId": String, "screenResolution": String, "hostname": String, "pagePath": String,
	"pagePathLevel1": String, "pagePathLevel2": String, "pagePathLevel3": String, "pagePathLevel4": String,
	"pageTitle": String, "landingPagePath": String, "secondPagePath": String, "exitPagePath": String,
	"previousPagePath": String, "pageDepth": String, "searchUsed": String, "searchKeyword": String,
	"searchKeywordRefinement": String, "searchCategory": String, "searchStartPage": String, "searchDestinationPage": String,
	"searchAfterDestinationPage": String, "appInstallerId": String, "appVersion": String, "appName": String,
	"appId": String, "screenName": String, "screenDepth": String, "landingScreenName": String,
	"exitScreenName": String, "eventCategory": String, "eventAction": String, "eventLabel": String,
	"transactionId": String, "affiliation": String, "sessionsToTransaction": String, "daysToTransaction": String,
	"productSku": String, "productName": String, "productCategory": String, "currencyCode": String,
	"checkoutOptions": String, "internalPromotionCreative": String, "internalPromotionId": String, "internalPromotionName": String,
	"internalPromotionPosition": String, "orderCouponCode": String, "productBrand": String, "productCategoryHierarchy": String,
	"productCategoryLevel1": String, "productCategoryLevel2": String, "productCategoryLevel3": String, "productCategoryLevel4": String,
	"productCategoryLevel5": String, "productCouponCode": String, "productListName": String, "productListPosition": String,
	"productVariant": String, "shoppingStage": String, "socialInteractionNetwork": String, "socialInteractionAction": String,
	"socialInteractionNetworkAction": String, "socialInteractionTarget": String, "socialEngagementType": String, "userTimingCategory": String,
	"userTimingLabel": String, "userTimingVariable": String, "exceptionDescription": String, "experimentId": String,
	"experimentVariant": String, "experimentCombination": String, "experimentName": String, "year": String,
	"month": String, "week": String, "day": String, "hour": String,
	"minute": String, "nthMonth": String, "nthWeek": String, "nthDay": String,
	"nthHour": String, "nthMinute": String, "dayOfWeek": String, "dayOfWeekName": String,
	"dateHour": String, "dateHourMinute": String, "yearMonth": String, "yearWeek": String,
	"isoWeek": String, "isoYear": String, "isoYearIsoWeek": String, "userAgeBracket": String,
	"userGender": String, "interestOtherCategory": String, "interestAffinityCategory": String, "interestInMarketCategory": String,
	"acquisitionCampaign": String, "acquisitionMedium": String, "acquisitionSource": String, "acquisitionSourceMedium": String,
	"acquisitionTrafficChannel": String,
}
